package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"ITAM-backend/internal/platform/ref"
)

var setupOnce sync.Once

func engine() *validator.Validate {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		panic("validation: gin binding engine is not go-playground/validator")
	}
	setupOnce.Do(func() {
		// エラーメッセージには json のフィールド名を使う
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, key := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
		mustRegister(v, "notblank", NotBlank)
		mustRegister(v, "ulid", ULID)
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Register installs fn under tag on gin's validator. Call at route registration.
func Register(tag string, fn validator.Func) {
	mustRegister(engine(), tag, fn)
}

// Setup installs the shared validators.
func Setup() { engine() }

func NotBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(f.String()) != ""
}

func ULID(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return false
	}
	_, err := ulid.ParseStrict(strings.TrimSpace(f.String()))
	return err == nil
}

// OneOf accepts exactly the given string values. Empty strings are left to omitempty/required.
func OneOf[T ~string](values ...T) validator.Func {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[string(v)] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.String {
			return false
		}
		_, ok := set[f.String()]
		return ok
	}
}

// Message turns a binding error into a client-facing sentence.
func Message(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		parts := make([]string, 0, len(ve))
		for _, fe := range ve {
			parts = append(parts, describe(fe))
		}
		return strings.Join(parts, "; ")
	}
	if errors.Is(err, ref.ErrSentinel) || errors.Is(err, ref.ErrMalformed) {
		return err.Error()
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		if ute.Field != "" {
			return fmt.Sprintf("%s has the wrong type", ute.Field)
		}
		return "request body has the wrong type"
	}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return "invalid json"
	}
	return "invalid request"
}

func describe(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "notblank":
		return name + " must not be blank"
	case "ulid":
		return name + " must be a ULID"
	case "email":
		return name + " must be an email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", name, fe.Tag())
	}
}
