package model

// Issue timestamps are stored as issue.TimestampLayout text so equality
// filters compare exact strings.
type Issue struct {
	ID         string  `gorm:"column:id;type:text;primaryKey"`
	Project    string  `gorm:"column:project;type:text;not null;index"`
	IssueTitle string  `gorm:"column:issue_title;type:text;not null"`
	IssueText  string  `gorm:"column:issue_text;type:text;not null"`
	CreatedBy  string  `gorm:"column:created_by;type:text;not null"`
	AssignedTo *string `gorm:"column:assigned_to;type:text"`
	StatusText *string `gorm:"column:status_text;type:text"`
	Open       bool    `gorm:"column:open;not null"`
	CreatedOn  string  `gorm:"column:created_on;type:text;not null"`
	UpdatedOn  string  `gorm:"column:updated_on;type:text;not null"`
}

func (Issue) TableName() string {
	return "issues"
}
