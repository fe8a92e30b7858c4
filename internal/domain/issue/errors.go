package issue

import "errors"

// The messages are part of the HTTP contract.
var (
	ErrRequiredFieldsMissing = errors.New("required field(s) missing")
	ErrMissingID             = errors.New("missing _id")
	ErrNoUpdateFields        = errors.New("no update field(s) sent")
	ErrCouldNotUpdate        = errors.New("could not update")
	ErrCouldNotDelete        = errors.New("could not delete")

	ErrProjectRequired = errors.New("project is required")
)
