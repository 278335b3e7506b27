package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid record")

var weekIDPattern = regexp.MustCompile(`^\d{4}-W\d{2}$`)

var validate = NewValidator()

// NewValidator returns a validator with the clock and week tags registered:
// hhmm (a 24h HH:MM time), clock5 (HH:MM on a 5-minute mark) and weekid.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("clock5", func(fl validator.FieldLevel) bool {
		t, err := time.Parse("15:04", fl.Field().String())
		return err == nil && t.Minute()%5 == 0
	})
	_ = v.RegisterValidation("weekid", func(fl validator.FieldLevel) bool {
		return weekIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks a record's validate tags.
func Validate(rec any) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", e.StructNamespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
