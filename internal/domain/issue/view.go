package issue

// View is the external JSON form of an Issue returned by GET and POST.
type View struct {
	ID         string `json:"_id" jsonschema:"description=Store-assigned identifier"`
	IssueTitle string `json:"issue_title"`
	IssueText  string `json:"issue_text"`
	CreatedOn  string `json:"created_on" jsonschema:"format=date-time"`
	UpdatedOn  string `json:"updated_on" jsonschema:"format=date-time"`
	CreatedBy  string `json:"created_by"`
	AssignedTo string `json:"assigned_to" jsonschema:"description=Empty when unassigned"`
	Open       bool   `json:"open"`
	StatusText string `json:"status_text" jsonschema:"description=Empty when unset"`
}

func Shape(in Issue) View {
	return View{
		ID:         in.ID,
		IssueTitle: in.Title,
		IssueText:  in.Text,
		CreatedOn:  FormatTimestamp(in.CreatedOn),
		UpdatedOn:  FormatTimestamp(in.UpdatedOn),
		CreatedBy:  in.CreatedBy,
		AssignedTo: deref(in.AssignedTo),
		Open:       in.Open,
		StatusText: deref(in.StatusText),
	}
}

// ShapeAll never returns nil so an empty result encodes as [].
func ShapeAll(in []Issue) []View {
	out := make([]View, 0, len(in))
	for _, item := range in {
		out = append(out, Shape(item))
	}
	return out
}

func deref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
