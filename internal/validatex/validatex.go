// Package validatex wraps go-playground/validator and translates field
// failures into the stable machine-readable codes clients branch on. Inputs
// declare bounds with `validate` tags and the reported code with `errcode`
// tags; validation always happens before any mutation.
package validatex

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kotoba-app/kotoba/internal/common"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Error carries one code per failed field. It matches common.ErrValidation
// under errors.Is.
type Error struct {
	Codes []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Codes, ", "))
}

func (e *Error) Unwrap() error { return common.ErrValidation }

// Struct validates s and returns nil or an *Error listing every failed
// field's code. A field without an errcode tag falls back to a code derived
// from its name.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	codes := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		codes = append(codes, codeFor(t, fe.StructField()))
	}
	return &Error{Codes: codes}
}

func codeFor(t reflect.Type, field string) string {
	if f, ok := t.FieldByName(field); ok {
		if code := f.Tag.Get("errcode"); code != "" {
			return code
		}
	}
	return "ERR_INVALID_" + strings.ToUpper(field)
}
