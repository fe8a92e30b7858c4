package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"issuetracker/internal/domain/issue"
)

// issueDocument keys match the external field names so filter conditions map
// one to one onto document keys.
type issueDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Project    string             `bson:"project"`
	IssueTitle string             `bson:"issue_title"`
	IssueText  string             `bson:"issue_text"`
	CreatedOn  time.Time          `bson:"created_on"`
	UpdatedOn  time.Time          `bson:"updated_on"`
	CreatedBy  string             `bson:"created_by"`
	AssignedTo *string            `bson:"assigned_to,omitempty"`
	Open       bool               `bson:"open"`
	StatusText *string            `bson:"status_text,omitempty"`
}

func toDocument(in issue.Issue) issueDocument {
	return issueDocument{
		Project:    in.Project,
		IssueTitle: in.Title,
		IssueText:  in.Text,
		CreatedOn:  issue.Normalize(in.CreatedOn),
		UpdatedOn:  issue.Normalize(in.UpdatedOn),
		CreatedBy:  in.CreatedBy,
		AssignedTo: in.AssignedTo,
		Open:       in.Open,
		StatusText: in.StatusText,
	}
}

func (d issueDocument) toIssue() issue.Issue {
	return issue.Issue{
		ID:         d.ID.Hex(),
		Project:    d.Project,
		Title:      d.IssueTitle,
		Text:       d.IssueText,
		CreatedBy:  d.CreatedBy,
		AssignedTo: d.AssignedTo,
		StatusText: d.StatusText,
		Open:       d.Open,
		CreatedOn:  issue.Normalize(d.CreatedOn),
		UpdatedOn:  issue.Normalize(d.UpdatedOn),
	}
}
