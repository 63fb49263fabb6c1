package ez

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"grocery-backend/internal/apperr"
)

const nonField = "non_field_errors"

// BindError gin 绑定失败转成带字段表的校验错误
func BindError(err error) error {
	var (
		ves     validator.ValidationErrors
		typeErr *json.UnmarshalTypeError
		synErr  *json.SyntaxError
		maxErr  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ves):
		fields := make(map[string]string, len(ves))
		for _, fe := range ves {
			fields[snake(fe.Field())] = "Invalid value."
		}
		return apperr.Validation("Invalid input.", fields)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return apperr.Field(typeErr.Field, "Incorrect type. Expected "+typeErr.Type.String()+".")
	case errors.As(err, &synErr):
		return apperr.Field(nonField, "JSON parse error.")
	case errors.As(err, &maxErr):
		return apperr.Field(nonField, "Request body too large.")
	}
	return apperr.Field(nonField, err.Error())
}

// snake GroceryID -> grocery_id；query 结构体没有 json tag 时兜底用
func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
