package form

import (
	"fmt"

	"github.com/spf13/cast"
)

// rule checks one field value; value is never empty when a rule runs.
type rule func(f *Form, value string) error

var rules = map[string]rule{
	"amount":          positiveNumber,
	"duration_amount": positiveInteger,
	"prediction":      digit,
	"barrier":         signedNumber,
	"barrier_high":    signedNumber,
	"barrier_low":     signedNumber,
	"time_start":      clock,
}

// -----------------------------------------------------------------------------

// Validate runs the field rules over visible, non-empty fields and records
// the outcome on each field. Hidden fields keep no error.
func (f *Form) Validate() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	errs := make(map[string]string)
	for id, field := range f.fields {
		field.Error = ""
		if !field.Visible {
			continue
		}

		value := field.Value
		if id == "expiry_date" {
			value = field.Attrs["data-value"]
			if value != "" {
				if err := f.validate.Var(value, "datetime=2006-01-02"); err != nil {
					field.Error = "invalid date"
				}
			}
		} else if r, ok := rules[id]; ok && value != "" {
			if err := r(f, value); err != nil {
				field.Error = err.Error()
			}
		}

		if field.Error != "" {
			errs[id] = field.Error
		}
	}
	return errs
}

// -----------------------------------------------------------------------------

func positiveNumber(f *Form, value string) error {
	if err := f.validate.Var(value, "numeric"); err != nil {
		return fmt.Errorf("must be a number")
	}
	if err := f.validate.Var(cast.ToFloat64(value), "gt=0"); err != nil {
		return fmt.Errorf("must be greater than 0")
	}
	return nil
}

func positiveInteger(f *Form, value string) error {
	if err := f.validate.Var(value, "number"); err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if err := f.validate.Var(cast.ToFloat64(value), "gt=0"); err != nil {
		return fmt.Errorf("must be greater than 0")
	}
	return nil
}

func digit(f *Form, value string) error {
	if err := f.validate.Var(value, "number,len=1"); err != nil {
		return fmt.Errorf("must be a single digit")
	}
	return nil
}

func signedNumber(f *Form, value string) error {
	if err := f.validate.Var(value, "numeric"); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}

func clock(f *Form, value string) error {
	if err := f.validate.Var(value, "datetime=15:04"); err != nil {
		return fmt.Errorf("must be HH:MM")
	}
	return nil
}
