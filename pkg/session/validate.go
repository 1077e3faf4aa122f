package session

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		// Report json names so errors read like the data files.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation("day", func(fl validator.FieldLevel) bool {
			return Day(fl.Field().String()).Valid()
		})
		_ = validate.RegisterValidation("slot", func(fl validator.FieldLevel) bool {
			return Slot(fl.Field().Int()).Valid()
		})
		_ = validate.RegisterValidation("room", func(fl validator.FieldLevel) bool {
			return ValidRoom(fl.Field().String())
		})
	})
	return validate
}

// ValidRoom reports whether r is usable as a room name. Rooms are compared
// verbatim, so surrounding spaces are rejected rather than trimmed.
func ValidRoom(r string) bool {
	return r != "" && r == strings.TrimSpace(r)
}

// Validate checks that every field of s is present and that its cell
// belongs to the grid.
func Validate(s Session) error {
	return describe(validatorInstance().Struct(s))
}

// ValidateUpdates checks the fields that u sets.
func ValidateUpdates(u Updates) error {
	if u.Salle != nil && !ValidRoom(*u.Salle) {
		return fmt.Errorf("salle: invalid room %q, must not be blank or padded", *u.Salle)
	}
	return describe(validatorInstance().Struct(u))
}

func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), reason(fe)))
	}
	return errors.New(strings.Join(parts, "; "))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return "is required"
	case "day":
		return fmt.Sprintf("unknown day %q, expected one of %s", fe.Value(), joinDays())
	case "slot":
		return fmt.Sprintf("unknown slot %v, expected %d..%d", fe.Value(), FirstSlot, LastSlot)
	case "room":
		return fmt.Sprintf("invalid room %q, must not be blank or padded", fe.Value())
	default:
		return "failed " + fe.Tag()
	}
}
