package helper

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the admin form date format.
const DateLayout = "01/02/2006"

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator. Field names in errors follow the
// json tags so they match the request payload.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("news_date", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			if s == "" {
				return true
			}
			_, err := time.Parse(DateLayout, s)
			return err == nil
		})
		validate = v
	})
	return validate
}

// ValidateStruct returns nil when s is valid, otherwise a field -> messages map.
func ValidateStruct(s any) map[string][]string {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return map[string][]string{"_": {err.Error()}}
	}
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		key := fieldPath(fe.Namespace())
		out[key] = append(out[key], messageFor(fe))
	}
	return out
}

// fieldPath drops the root struct name: "SaveRequest.translations[0].name" -> "translations[0].name".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "news_date":
		return "must be a date formatted as MM/DD/YYYY"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
