package controller

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Sriverasc/AireAPI/internal/modules/airquality/types"
	"github.com/Sriverasc/AireAPI/internal/temporal"
)

func newValidator(now func() time.Time) *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if ts, ok := field.Interface().(types.Timestamp); ok {
			return ts.Time
		}
		return nil
	}, types.Timestamp{})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && temporal.CheckKey(t, now()) == nil
	})
	return v
}

// validationMessage renders validator errors as one line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "notfuture":
			msgs = append(msgs, fmt.Sprintf("%s cannot be in the future", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
