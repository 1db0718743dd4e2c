package errs

import "encoding/json"

// Общие коды ошибок API.
var (
	ErrInternalServerError = New("INTERNAL_SERVER_ERROR")
	ErrInvalid             = New("INVALID")
	ErrRequired            = New("REQUIRED")
)

// Code — ошибка с машинным кодом; в ответе сериализуется как {"code": X}.
type Code struct {
	code string
}

// New создаёт ошибку с кодом.
func New(code string) error {
	return &Code{code}
}

func (e *Code) Error() string {
	return e.code
}

func (e *Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"code": e.code})
}

// Fields — ошибки по отдельным полям: {"text": "INVALID", "attachments.1": "TOO_BIG"}.
type Fields map[string]error

func (e Fields) Error() string {
	return "validation failed"
}

func (e Fields) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(e))
	for field, err := range e {
		m[field] = err.Error()
	}
	return json.Marshal(m)
}
