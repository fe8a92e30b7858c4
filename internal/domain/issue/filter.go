package issue

import "strings"

// Filter is a conjunction of equality conditions within one project.
type Filter struct {
	Project    string
	Conditions []FieldValue
	// Unsatisfiable is set when a supplied value can never equal a stored one,
	// e.g. open=maybe or an unparseable timestamp.
	Unsatisfiable bool
}

// BuildFilter scopes query to project, adding one condition per recognised key.
// Unknown keys are ignored.
func BuildFilter(project string, query Values) Filter {
	filter := Filter{Project: strings.TrimSpace(project)}
	for _, def := range fieldTable {
		if !def.Filterable {
			continue
		}
		raw, present := query.lookup(def.Field)
		if !present {
			continue
		}

		value, ok := filterValue(def, raw)
		if !ok {
			filter.Unsatisfiable = true
			continue
		}
		filter.Conditions = append(filter.Conditions, FieldValue{Field: def.Field, Value: value})
	}
	return filter
}

// Condition returns the value constrained for field, if any.
func (f Filter) Condition(field Field) (any, bool) {
	for _, condition := range f.Conditions {
		if condition.Field == field {
			return condition.Value, true
		}
	}
	return nil, false
}
