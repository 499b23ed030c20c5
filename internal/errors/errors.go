// Package errors holds the coded error type the API surfaces speak.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is an error carrying the HTTP status it should surface as.
//
// On the wire it collapses to the frontend's expected shape:
// {"error": "<message>"}.
type Error struct {
	Status int
	Err    error // The error this wraps
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type transport struct {
	Error string `json:"error"`
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(transport{
		Error: e.Err.Error(),
	})
}

func (e *Error) UnmarshalJSON(byts []byte) error {
	t := transport{}
	if err := json.Unmarshal(byts, &t); err != nil {
		return err
	}

	e.Err = errors.New(t.Error)
	return nil
}

// E builds an Error from its arguments: a string or error becomes the
// wrapped error, an int the status. The status defaults to 500.
func E(args ...any) *Error {
	ret := &Error{
		Status: http.StatusInternalServerError,
		Err:    nil,
	}

	for _, arg := range args {
		switch arg := arg.(type) {
		case string:
			ret.Err = errors.New(arg)
		case error:
			ret.Err = arg
		case int:
			ret.Status = arg
		}
	}

	return ret
}
