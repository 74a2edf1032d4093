package service

// Kind is the closed set of failure categories the auth service reports.
type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindUnauthorized
	KindNotFound
	KindServerError
)

// Error pairs a failure kind with a human-readable message. The kind drives
// the HTTP status; the message is safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func badRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

func badRequestErr(message string, err error) *Error {
	return &Error{Kind: KindBadRequest, Message: message, Err: err}
}

func unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func notFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func serverError(message string, err error) *Error {
	return &Error{Kind: KindServerError, Message: message, Err: err}
}
