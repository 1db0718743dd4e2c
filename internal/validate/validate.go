package validate

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"pinboard/internal/errs"
)

var (
	v    *validator.Validate
	once sync.Once
)

func initValidator() {
	v = validator.New()

	// Имя поля в ошибке берём из form/json тега, а не из имени в Go.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("form")
		if tag == "" {
			tag = fld.Tag.Get("json")
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// trim всегда проходит, но обрезает пробелы по месту, чтобы
	// последующий required сработал на пустой строке.
	_ = v.RegisterValidation("trim", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() == reflect.String && field.CanSet() {
			field.SetString(strings.TrimSpace(field.String()))
		}
		return true
	})
}

// Struct проверяет структуру по validate-тегам; ошибки возвращаются
// картой поле → INVALID.
func Struct(s any) error {
	once.Do(initValidator)

	if err := v.Struct(s); err != nil {
		m := make(errs.Fields)
		for _, fe := range err.(validator.ValidationErrors) {
			m[fe.Field()] = errs.ErrInvalid
		}
		return m
	}
	return nil
}

// Var проверяет одиночное значение по списку тегов.
func Var(field any, tag string) error {
	once.Do(initValidator)

	if err := v.Var(field, tag); err != nil {
		return errs.ErrInvalid
	}
	return nil
}
