package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"grocery-backend/internal/apperr"
	"grocery-backend/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 错误里的字段名用 json tag
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldMessage validator 错误转成对外的字段提示
func FieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	}
	return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
}

// FieldErrors 把 validator.ValidationErrors 转成 field -> message
func FieldErrors(err error) map[string]string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	out := make(map[string]string, len(ves))
	for _, fe := range ves {
		out[fe.Field()] = FieldMessage(fe)
	}
	return out
}

// fields 收集手写校验和 struct tag 校验的结果
type fields map[string]string

func (f fields) tags(in any) {
	for k, v := range FieldErrors(validate.Struct(in)) {
		f[k] = v
	}
}

func (f fields) required(name string, ok bool) {
	if !ok {
		f[name] = "This field is required."
	}
}

// money 非负，且能原样放进 decimal(digits, domain.MoneyPlaces) 列
func (f fields) money(name string, d *decimal.Decimal, digits int32) {
	if d == nil {
		return
	}
	whole := digits - domain.MoneyPlaces
	switch {
	case d.IsNegative():
		f[name] = "Ensure this value is greater than or equal to 0."
	case !d.Equal(d.Round(domain.MoneyPlaces)):
		f[name] = fmt.Sprintf("Ensure that there are no more than %d decimal places.", domain.MoneyPlaces)
	case d.Truncate(0).GreaterThanOrEqual(decimal.New(1, whole)):
		f[name] = fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", whole)
	}
}

func (f fields) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperr.Validation("Invalid input.", f)
}
