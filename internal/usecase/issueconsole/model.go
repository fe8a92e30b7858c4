package issueconsole

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"issuetracker/internal/bootstrap/logging"
	"issuetracker/internal/domain/issue"
)

const maxAuditLines = 8

// IssueService is the subset of the issue use cases the console drives.
type IssueService interface {
	ListIssues(ctx context.Context, project string, query issue.Values) ([]issue.View, error)
	UpdateIssue(ctx context.Context, project string, input issue.Values) (string, error)
	DeleteIssue(ctx context.Context, project string, input issue.Values) (string, error)
}

type Options struct {
	Project         string
	Assignee        string
	OpenFilter      string
	RefreshInterval time.Duration
}

type model struct {
	ctx             context.Context
	service         IssueService
	project         string
	assigneeFilter  string
	openFilter      string
	refreshInterval time.Duration

	issues        []issue.View
	selectedIndex int
	pendingDelete string
	status        string
	auditLogs     []string
	now           func() time.Time
}

type issuesLoadedMsg struct {
	items []issue.View
	err   error
}

type tickMsg struct{}

type actionDoneMsg struct {
	action  string
	issueID string
	result  string
	err     error
}

func NewModel(ctx context.Context, service IssueService, options Options) tea.Model {
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &model{
		ctx:             ctx,
		service:         service,
		project:         strings.TrimSpace(options.Project),
		assigneeFilter:  strings.TrimSpace(options.Assignee),
		openFilter:      normalizeOpenFilter(options.OpenFilter),
		refreshInterval: interval,
		status:          "loading",
		now:             time.Now,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.loadIssuesCmd(), m.tickCmd())
}

func (m *model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadIssuesCmd(), m.tickCmd())
	case issuesLoadedMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.issues = msg.items
		if len(m.issues) == 0 {
			m.selectedIndex = 0
			m.pendingDelete = ""
			m.status = "no issues"
			return m, nil
		}
		if m.selectedIndex < 0 {
			m.selectedIndex = 0
		}
		if m.selectedIndex >= len(m.issues) {
			m.selectedIndex = len(m.issues) - 1
		}
		m.status = fmt.Sprintf("refreshed, %d issue(s)", len(m.issues))
		return m, nil
	case actionDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
			m.appendAuditLog(msg.action, msg.issueID, "failed", msg.err)
		} else {
			m.status = fmt.Sprintf("%s done: %s", msg.action, msg.result)
			m.appendAuditLog(msg.action, msg.issueID, msg.result, nil)
		}
		return m, m.loadIssuesCmd()
	case tea.KeyMsg:
		key := msg.String()
		if key != "d" {
			m.pendingDelete = ""
		}
		switch key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.status = "refreshing"
			return m, m.loadIssuesCmd()
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
			}
			return m, nil
		case "down", "j":
			if m.selectedIndex < len(m.issues)-1 {
				m.selectedIndex++
			}
			return m, nil
		case "f":
			m.openFilter = nextOpenFilter(m.openFilter)
			m.status = "filter open=" + firstNonEmpty(m.openFilter, "all")
			return m, m.loadIssuesCmd()
		case "x":
			return m, m.toggleOpenCmd()
		case "d":
			return m, m.deleteCmd()
		}
	}
	return m, nil
}

func (m *model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Issue Console"))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf(
		"project=%s assignee=%s open=%s refresh=%s",
		m.project,
		firstNonEmpty(m.assigneeFilter, "-"),
		firstNonEmpty(m.openFilter, "all"),
		m.refreshInterval,
	)))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Issues"))
	builder.WriteString("\n")
	if len(m.issues) == 0 {
		builder.WriteString(dimStyle.Render("- no issues"))
		builder.WriteString("\n\n")
	} else {
		for index, item := range m.issues {
			line := fmt.Sprintf(
				"%s [%s] assignee=%s title=%s",
				item.ID,
				openLabel(item.Open),
				firstNonEmpty(item.AssignedTo, "-"),
				item.IssueTitle,
			)
			if index == m.selectedIndex {
				builder.WriteString(selectedStyle.Render("> " + line))
			} else {
				builder.WriteString("  " + line)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Detail"))
	builder.WriteString("\n")
	if selected, ok := m.selectedIssue(); !ok {
		builder.WriteString(dimStyle.Render("- no detail"))
		builder.WriteString("\n\n")
	} else {
		builder.WriteString(fmt.Sprintf("ID: %s\n", selected.ID))
		builder.WriteString(fmt.Sprintf("Title: %s\n", selected.IssueTitle))
		builder.WriteString(fmt.Sprintf("Status: %s (%s)\n", openLabel(selected.Open), firstNonEmpty(selected.StatusText, "-")))
		builder.WriteString(fmt.Sprintf("CreatedBy: %s\n", selected.CreatedBy))
		builder.WriteString(fmt.Sprintf("AssignedTo: %s\n", firstNonEmpty(selected.AssignedTo, "-")))
		builder.WriteString(fmt.Sprintf("Created: %s Updated: %s\n", selected.CreatedOn, selected.UpdatedOn))
		builder.WriteString("\n")
		builder.WriteString(selected.IssueText)
		builder.WriteString("\n\n")
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + firstNonEmpty(m.status, "ready"))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Audit Log"))
	builder.WriteString("\n")
	if len(m.auditLogs) == 0 {
		builder.WriteString(dimStyle.Render("- no actions"))
		builder.WriteString("\n\n")
	} else {
		for _, line := range m.auditLogs {
			builder.WriteString("- " + line)
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(dimStyle.Render("Keys: ↑/k ↓/j move  g refresh  f open filter  x close/reopen  d delete (twice)  q quit"))
	return builder.String()
}

func (m *model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *model) query() issue.Values {
	query := issue.Values{}
	if m.assigneeFilter != "" {
		query[string(issue.FieldAssignedTo)] = m.assigneeFilter
	}
	if m.openFilter != "" {
		query[string(issue.FieldOpen)] = m.openFilter
	}
	return query
}

func (m *model) loadIssuesCmd() tea.Cmd {
	query := m.query()
	return func() tea.Msg {
		items, err := m.service.ListIssues(m.ctx, m.project, query)
		if err != nil {
			return issuesLoadedMsg{err: err}
		}
		return issuesLoadedMsg{items: items}
	}
}

func (m *model) toggleOpenCmd() tea.Cmd {
	selected, ok := m.selectedIssue()
	if !ok {
		m.status = "no issue selected"
		return nil
	}

	action := "close"
	if !selected.Open {
		action = "reopen"
	}
	m.status = action + " in progress"
	return func() tea.Msg {
		id, err := m.service.UpdateIssue(m.ctx, m.project, issue.Values{
			string(issue.FieldID):   selected.ID,
			string(issue.FieldOpen): !selected.Open,
		})
		if err != nil {
			return actionDoneMsg{action: action, issueID: selected.ID, err: err}
		}
		return actionDoneMsg{action: action, issueID: id, result: "open=" + strconv.FormatBool(!selected.Open)}
	}
}

// deleteCmd asks for confirmation on the first press and deletes on the
// second press for the same issue.
func (m *model) deleteCmd() tea.Cmd {
	selected, ok := m.selectedIssue()
	if !ok {
		m.status = "no issue selected"
		return nil
	}
	if m.pendingDelete != selected.ID {
		m.pendingDelete = selected.ID
		m.status = "press d again to delete " + selected.ID
		return nil
	}

	m.pendingDelete = ""
	m.status = "delete in progress"
	return func() tea.Msg {
		id, err := m.service.DeleteIssue(m.ctx, m.project, issue.Values{string(issue.FieldID): selected.ID})
		if err != nil {
			return actionDoneMsg{action: "delete", issueID: selected.ID, err: err}
		}
		return actionDoneMsg{action: "delete", issueID: id, result: "deleted"}
	}
}

func (m *model) selectedIssue() (issue.View, bool) {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.issues) {
		return issue.View{}, false
	}
	return m.issues[m.selectedIndex], true
}

func (m *model) appendAuditLog(action string, issueID string, result string, opErr error) {
	outcome := strings.TrimSpace(result)
	if opErr != nil {
		outcome = "error: " + opErr.Error()
	}
	if outcome == "" {
		outcome = "ok"
	}

	timestamp := m.now().UTC().Format(time.RFC3339)
	line := fmt.Sprintf("%s project=%s issue=%s action=%s result=%s", timestamp, m.project, issueID, action, outcome)
	m.auditLogs = append([]string{line}, m.auditLogs...)
	if len(m.auditLogs) > maxAuditLines {
		m.auditLogs = m.auditLogs[:maxAuditLines]
	}

	logging.Info(m.ctx, "issue console action",
		slog.String("project", m.project),
		slog.String("issue_id", issueID),
		slog.String("action", action),
		slog.String("result", outcome),
	)
}

func normalizeOpenFilter(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "open":
		return "true"
	case "false", "closed":
		return "false"
	default:
		return ""
	}
}

func nextOpenFilter(current string) string {
	switch current {
	case "":
		return "true"
	case "true":
		return "false"
	default:
		return ""
	}
}

func openLabel(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		normalized := strings.TrimSpace(value)
		if normalized != "" {
			return normalized
		}
	}
	return ""
}
