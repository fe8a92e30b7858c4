package issue

import (
	"strings"
	"time"
)

// Issue is a stored issue record.
type Issue struct {
	ID         string
	Project    string
	Title      string
	Text       string
	CreatedBy  string
	AssignedTo *string
	StatusText *string
	Open       bool
	CreatedOn  time.Time
	UpdatedOn  time.Time
}

// NewIssue validates the creation input and returns the record to insert.
// The store assigns the ID.
func NewIssue(project string, input Values, now time.Time) (Issue, error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return Issue{}, ErrProjectRequired
	}

	title, titleOK := input.text(FieldTitle)
	text, textOK := input.text(FieldText)
	createdBy, createdByOK := input.text(FieldCreatedBy)
	if !titleOK || !textOK || !createdByOK {
		return Issue{}, ErrRequiredFieldsMissing
	}

	stamp := Normalize(now)
	return Issue{
		Project:    project,
		Title:      title,
		Text:       text,
		CreatedBy:  createdBy,
		AssignedTo: input.optionalText(FieldAssignedTo),
		StatusText: input.optionalText(FieldStatusText),
		Open:       true,
		CreatedOn:  stamp,
		UpdatedOn:  stamp,
	}, nil
}
