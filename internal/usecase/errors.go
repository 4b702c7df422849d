package usecase

// Error taxonomy surfaced across the service boundary. Handlers map these to
// HTTP statuses (400 / 404 / 409); anything else is an internal failure.

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// ConflictError reports a uniqueness violation and names the offending field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string { return e.Field + " must be unique" }
