package issue

import "time"

// Field is the external name of a stored issue attribute.
type Field string

const (
	FieldID         Field = "_id"
	FieldProject    Field = "project"
	FieldTitle      Field = "issue_title"
	FieldText       Field = "issue_text"
	FieldCreatedOn  Field = "created_on"
	FieldUpdatedOn  Field = "updated_on"
	FieldCreatedBy  Field = "created_by"
	FieldAssignedTo Field = "assigned_to"
	FieldOpen       Field = "open"
	FieldStatusText Field = "status_text"
)

type Kind int

const (
	KindID Kind = iota
	KindText
	KindOptionalText
	KindBool
	KindTime
)

// FieldDef describes how a request value for Field is read.
type FieldDef struct {
	Field      Field
	Kind       Kind
	Filterable bool
	Updatable  bool
}

// fieldTable is shared by BuildFilter and BuildPatch; its order is the order
// conditions and assignments are emitted in.
var fieldTable = []FieldDef{
	{Field: FieldID, Kind: KindID, Filterable: true},
	{Field: FieldTitle, Kind: KindText, Filterable: true, Updatable: true},
	{Field: FieldText, Kind: KindText, Filterable: true, Updatable: true},
	{Field: FieldCreatedOn, Kind: KindTime, Filterable: true},
	{Field: FieldUpdatedOn, Kind: KindTime, Filterable: true},
	{Field: FieldCreatedBy, Kind: KindText, Filterable: true, Updatable: true},
	{Field: FieldAssignedTo, Kind: KindOptionalText, Filterable: true, Updatable: true},
	{Field: FieldOpen, Kind: KindBool, Filterable: true, Updatable: true},
	{Field: FieldStatusText, Kind: KindOptionalText, Filterable: true, Updatable: true},
}

func Fields() []FieldDef {
	return append([]FieldDef(nil), fieldTable...)
}

// FieldValue pairs a field with a store-ready value: string, bool, time.Time,
// or nil for an unset optional text field.
type FieldValue struct {
	Field Field
	Value any
}

// filterValue reads a query value for def. ok is false when no stored record
// could ever equal the value.
func filterValue(def FieldDef, raw any) (value any, ok bool) {
	switch def.Kind {
	case KindID, KindText:
		s, isString := raw.(string)
		if !isString || s == "" {
			return nil, false
		}
		return s, true
	case KindOptionalText:
		s, isString := raw.(string)
		if !isString {
			return nil, false
		}
		if s == "" {
			return nil, true
		}
		return s, true
	case KindBool:
		return parseBool(raw)
	case KindTime:
		switch v := raw.(type) {
		case time.Time:
			return Normalize(v), true
		case string:
			t, err := ParseTimestamp(v)
			if err != nil {
				return nil, false
			}
			return t, true
		}
		return nil, false
	}
	return nil, false
}

// updateValue reads an update value for def. ok is false when the value does
// not count as sent.
func updateValue(def FieldDef, raw any) (value any, ok bool) {
	switch def.Kind {
	case KindText, KindOptionalText:
		s, isString := raw.(string)
		if !isString || s == "" {
			return nil, false
		}
		return s, true
	case KindBool:
		return parseBool(raw)
	}
	return nil, false
}
