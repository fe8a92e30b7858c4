package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"issuetracker/internal/domain/issue"
	"issuetracker/internal/errs"
	"issuetracker/internal/infrastructure/persistence/sqlite/model"
	"issuetracker/internal/ports"
)

type IssueRepository struct {
	db *gorm.DB
}

var _ ports.IssueStore = (*IssueRepository)(nil)

func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

func (r *IssueRepository) conn(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	return r.db.WithContext(ctx), nil
}

func (r *IssueRepository) MigrateSchema(ctx context.Context) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(&model.Issue{}); err != nil {
		return errs.Wrap(err, "auto migrate issues")
	}
	return nil
}

func (r *IssueRepository) Ping(ctx context.Context) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errs.Wrap(err, "get sql db")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errs.Wrap(err, "ping sqlite")
	}
	return nil
}

func (r *IssueRepository) FindIssues(ctx context.Context, filter issue.Filter) ([]issue.Issue, error) {
	if filter.Unsatisfiable {
		return []issue.Issue{}, nil
	}
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Issue{}).Where(clause.Eq{Column: clause.Column{Name: "project"}, Value: filter.Project})
	for _, condition := range filter.Conditions {
		column, value, err := toColumn(condition)
		if err != nil {
			return nil, err
		}
		query = query.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	}

	var rows []model.Issue
	if err := query.Order("rowid asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query issues")
	}

	items := make([]issue.Issue, 0, len(rows))
	for _, row := range rows {
		item, err := mapIssue(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *IssueRepository) InsertIssue(ctx context.Context, in issue.Issue) (issue.Issue, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return issue.Issue{}, err
	}

	row := model.Issue{
		ID:         uuid.NewString(),
		Project:    in.Project,
		IssueTitle: in.Title,
		IssueText:  in.Text,
		CreatedBy:  in.CreatedBy,
		AssignedTo: in.AssignedTo,
		StatusText: in.StatusText,
		Open:       in.Open,
		CreatedOn:  issue.FormatTimestamp(in.CreatedOn),
		UpdatedOn:  issue.FormatTimestamp(in.UpdatedOn),
	}
	if err := db.Create(&row).Error; err != nil {
		return issue.Issue{}, errs.Wrap(err, "insert issue")
	}
	return mapIssue(row)
}

func (r *IssueRepository) UpdateIssue(ctx context.Context, selector ports.IssueSelector, patch issue.Patch) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}

	updates := make(map[string]any, len(patch.Set)+1)
	for _, assignment := range patch.Assignments() {
		column, value, err := toColumn(assignment)
		if err != nil {
			return err
		}
		updates[column] = value
	}

	result := selectIssue(db, selector).Updates(updates)
	if result.Error != nil {
		return errs.Wrapf(result.Error, "update issue %q", selector.ID)
	}
	if result.RowsAffected == 0 {
		return ports.ErrIssueNotFound
	}
	return nil
}

func (r *IssueRepository) DeleteIssue(ctx context.Context, selector ports.IssueSelector) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}

	result := selectIssue(db, selector).Delete(&model.Issue{})
	if result.Error != nil {
		return errs.Wrapf(result.Error, "delete issue %q", selector.ID)
	}
	if result.RowsAffected == 0 {
		return ports.ErrIssueNotFound
	}
	return nil
}

func selectIssue(db *gorm.DB, selector ports.IssueSelector) *gorm.DB {
	query := db.Model(&model.Issue{}).Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: selector.ID})
	if selector.Project != "" {
		query = query.Where(clause.Eq{Column: clause.Column{Name: "project"}, Value: selector.Project})
	}
	return query
}

func toColumn(fv issue.FieldValue) (string, any, error) {
	column := string(fv.Field)
	if fv.Field == issue.FieldID {
		column = "id"
	}

	switch v := fv.Value.(type) {
	case nil, string, bool:
		return column, v, nil
	case time.Time:
		return column, issue.FormatTimestamp(v), nil
	default:
		return "", nil, fmt.Errorf("unsupported value %T for %s", fv.Value, fv.Field)
	}
}

func mapIssue(row model.Issue) (issue.Issue, error) {
	createdOn, err := issue.ParseTimestamp(row.CreatedOn)
	if err != nil {
		return issue.Issue{}, errs.Wrapf(err, "parse created_on of issue %q", row.ID)
	}
	updatedOn, err := issue.ParseTimestamp(row.UpdatedOn)
	if err != nil {
		return issue.Issue{}, errs.Wrapf(err, "parse updated_on of issue %q", row.ID)
	}

	return issue.Issue{
		ID:         row.ID,
		Project:    row.Project,
		Title:      row.IssueTitle,
		Text:       row.IssueText,
		CreatedBy:  row.CreatedBy,
		AssignedTo: row.AssignedTo,
		StatusText: row.StatusText,
		Open:       row.Open,
		CreatedOn:  createdOn,
		UpdatedOn:  updatedOn,
	}, nil
}
