package api

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/models"
)

var hhmm = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// в сообщениях — имена полей из json-тегов
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmm.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("mealtype", func(fl validator.FieldLevel) bool {
		return models.MealType(fl.Field().String()).Valid()
	})
	return v
}

func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperr.Validation("invalid request", err.Error())
	}
	details := make([]string, 0, len(ve))
	for _, fe := range ve {
		details = append(details, fe.Field()+": "+fieldMessage(fe))
	}
	return apperr.Validation("validation failed", details...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "gt":
		return "must be > " + fe.Param()
	case "gtfield":
		return "must be greater than " + fe.Param()
	case "gtefield":
		return "must not be less than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "hhmm":
		return "must be time in HH:MM format"
	case "role":
		return "must be one of: admin teacher parent psychologist"
	case "mealtype":
		return "must be one of: breakfast second_breakfast lunch snack dinner"
	case "dive":
		return "has invalid items"
	}
	return "is invalid (" + fe.Tag() + ")"
}
