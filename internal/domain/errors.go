package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MalformedInputError reports an upload that cannot be decoded as a table.
type MalformedInputError struct {
	FileName string
	Reason   string
	Err      error
}

func (e *MalformedInputError) Error() string {
	msg := fmt.Sprintf("malformed input %q: %s", e.FileName, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// UnknownProjectTypeError reports a project type id with no registered type.
type UnknownProjectTypeError struct {
	ID string
}

func (e *UnknownProjectTypeError) Error() string {
	if strings.TrimSpace(e.ID) == "" {
		return "no project type selected"
	}
	return fmt.Sprintf("unknown project type %q", e.ID)
}

// UnknownLayoutError reports a project type whose format tag matches no layout.
type UnknownLayoutError struct {
	ProjectTypeID string
	Tag           string
}

func (e *UnknownLayoutError) Error() string {
	return fmt.Sprintf("project type %q uses unknown file layout %q", e.ProjectTypeID, e.Tag)
}

// MissingRequiredFieldsError lists mandatory fields absent from the sheet header.
type MissingRequiredFieldsError struct {
	Layout string
	Fields []string
}

func (e *MissingRequiredFieldsError) Error() string {
	return fmt.Sprintf("missing required columns for layout %s: %s", e.Layout, strings.Join(e.Fields, ", "))
}

// UnknownCommuneError reports a row whose commune is not in the curated list.
// Line is the 1-based line number of the row in the uploaded sheet.
type UnknownCommuneError struct {
	Value string
	Line  int
}

func (e *UnknownCommuneError) Error() string {
	return fmt.Sprintf("commune not found for %q (line %d)", e.Value, e.Line)
}

// PersistenceError wraps a store failure that is not otherwise classified.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return "persistence failure: " + e.Op
	}
	return fmt.Sprintf("persistence failure: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistenceError wraps err unless it already carries a classified error.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	if classified(err) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

func classified(err error) bool {
	var (
		malformed   *MalformedInputError
		unknownType *UnknownProjectTypeError
		unknownLay  *UnknownLayoutError
		missing     *MissingRequiredFieldsError
		commune     *UnknownCommuneError
		persistence *PersistenceError
	)
	return errors.As(err, &malformed) ||
		errors.As(err, &unknownType) ||
		errors.As(err, &unknownLay) ||
		errors.As(err, &missing) ||
		errors.As(err, &commune) ||
		errors.As(err, &persistence)
}

// HTTPStatus maps the error taxonomy to a response status.
func HTTPStatus(err error) int {
	var (
		malformed   *MalformedInputError
		unknownType *UnknownProjectTypeError
		unknownLay  *UnknownLayoutError
		missing     *MissingRequiredFieldsError
		commune     *UnknownCommuneError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &malformed),
		errors.As(err, &unknownType),
		errors.As(err, &unknownLay),
		errors.As(err, &missing):
		return http.StatusBadRequest
	case errors.As(err, &commune):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message of the classified error carried by err,
// without the wrapping context added on the way up.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		malformed   *MalformedInputError
		unknownType *UnknownProjectTypeError
		unknownLay  *UnknownLayoutError
		missing     *MissingRequiredFieldsError
		commune     *UnknownCommuneError
		persistence *PersistenceError
	)
	switch {
	case errors.As(err, &malformed):
		return malformed.Error()
	case errors.As(err, &unknownType):
		return unknownType.Error()
	case errors.As(err, &unknownLay):
		return unknownLay.Error()
	case errors.As(err, &missing):
		return missing.Error()
	case errors.As(err, &commune):
		return commune.Error()
	case errors.As(err, &persistence):
		return persistence.Error()
	default:
		return err.Error()
	}
}
