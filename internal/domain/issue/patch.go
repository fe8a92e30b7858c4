package issue

import "time"

// Patch is a sparse update. UpdatedOn is always written.
type Patch struct {
	Set       []FieldValue
	UpdatedOn time.Time
}

// BuildPatch collects the update fields that count as sent. It returns
// ErrNoUpdateFields rather than a timestamp-only patch.
func BuildPatch(input Values, now time.Time) (Patch, error) {
	patch := Patch{UpdatedOn: Normalize(now)}
	for _, def := range fieldTable {
		if !def.Updatable {
			continue
		}
		raw, present := input.lookup(def.Field)
		if !present {
			continue
		}
		if value, ok := updateValue(def, raw); ok {
			patch.Set = append(patch.Set, FieldValue{Field: def.Field, Value: value})
		}
	}

	if len(patch.Set) == 0 {
		return Patch{}, ErrNoUpdateFields
	}
	return patch, nil
}

// Assignments returns Set followed by the updated_on stamp.
func (p Patch) Assignments() []FieldValue {
	out := make([]FieldValue, 0, len(p.Set)+1)
	out = append(out, p.Set...)
	return append(out, FieldValue{Field: FieldUpdatedOn, Value: p.UpdatedOn})
}
