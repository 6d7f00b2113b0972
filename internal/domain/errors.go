package domain

import "errors"

type ErrorKind string

const (
	ErrorKindNotFound       ErrorKind = "not_found"
	ErrorKindConflict       ErrorKind = "conflict"
	ErrorKindInvalidRequest ErrorKind = "invalid_request"
	ErrorKindForbidden      ErrorKind = "forbidden"
	ErrorKindUnauthorized   ErrorKind = "unauthorized"
)

// Error — бизнес-ошибка с машиночитаемым типом и человекочитаемым сообщением.
// Все нарушения инвариантов возвращаются сервисами как *Error, а не как
// необработанные ошибки инфраструктуры.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NotFoundError(message string) *Error {
	return &Error{Kind: ErrorKindNotFound, Message: message}
}

func ConflictError(message string) *Error {
	return &Error{Kind: ErrorKindConflict, Message: message}
}

func InvalidRequestError(message string) *Error {
	return &Error{Kind: ErrorKindInvalidRequest, Message: message}
}

func ForbiddenError(message string) *Error {
	return &Error{Kind: ErrorKindForbidden, Message: message}
}

func UnauthorizedError(message string) *Error {
	return &Error{Kind: ErrorKindUnauthorized, Message: message}
}

// KindOf возвращает тип бизнес-ошибки или пустую строку для прочих ошибок.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
