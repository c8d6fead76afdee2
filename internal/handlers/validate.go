package handlers

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nimasrn/bizledger/internal/model"
	"github.com/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var fieldMessages = map[string]string{
	"name.required":       "Name is required",
	"email.required":      "Please include a valid email",
	"email.email":         "Please include a valid email",
	"password.required":   "Password is required",
	"password.min":        "Please enter a password with 6 or more characters",
	"type.required":       "Transaction type is required",
	"amount.required":     "Amount is required",
	"description.max":     "Description cannot be more than 200 characters",
	"clientName.required": "Client name is required",
	"clientName.max":      "Client name cannot be more than 100 characters",
	"dueDate.required":    "Due date is required",
}

// validateRequest runs the struct tags of a request body and reports the
// failures as a model.ValidationError keyed by json field name.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	out := &model.ValidationError{}
	for _, fe := range fields {
		out.Add(fe.Field(), fieldMessage(fe))
	}
	return out.Err()
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fe.Field() + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return fe.Field() + " cannot be more than " + fe.Param() + " characters"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	}
	return fe.Field() + " is invalid"
}
