package shop

import (
	"fmt"
	"reflect"

	pkgerrors "github.com/marketkit/shopcore/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Decimal fields validate through their float value so the usual numeric
	// tags (min, max) apply.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if value, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := value.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// ItemInput carries the data needed to mint a catalog item.
type ItemInput struct {
	Name   string          `validate:"required"`
	Price  decimal.Decimal `validate:"min=0"`
	Amount int             `validate:"min=0"`
}

// ClientInput carries the data needed to open a client account.
type ClientInput struct {
	ID      int             `validate:"required"`
	Balance decimal.Decimal `validate:"min=0"`
	Gold    bool
}

func validateInput(input any) error {
	if err := validate.Struct(input); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return "is invalid"
}
