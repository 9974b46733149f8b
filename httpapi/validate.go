package httpapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MrEthical07/learnhub"
	"github.com/go-playground/validator/v10"
)

// Validator adapts validator/v10 to echo.Validator. Failures wrap
// learnhub.ErrInvalidInput so they render as 400.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *Validator) Validate(i any) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", learnhub.ErrInvalidInput, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", learnhub.ErrInvalidInput, strings.Join(fields, ", "))
}
