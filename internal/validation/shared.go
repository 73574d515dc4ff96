package validation

import (
	"sort"
	"strings"
)

// Error collects per-argument messages. It unwraps to the apperrors
// sentinels behind each message so callers can still use errors.Is.
// Each message names its own argument.
type Error struct {
	Fields map[string]string

	errs []error
}

// Error joins the messages ordered by argument name.
func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, len(fields))
	for i, field := range fields {
		msgs[i] = e.Fields[field]
	}
	return strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() []error {
	return e.errs
}

func (e *Error) add(field string, err error) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = err.Error()
	e.errs = append(e.errs, err)
}

func (e *Error) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
