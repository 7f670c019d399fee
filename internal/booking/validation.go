package booking

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	phonePattern = regexp.MustCompile(`^\+?[0-9]{6,15}$`)
)

var validationMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"phone":    "must be 6 to 15 digits, optionally prefixed with +",
	"max":      "must be at most %s characters",
	"gte":      "must be at least %s",
	"lte":      "must be at most %s",
}

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("phone", validatePhone)
}

func validatePhone(fl validator.FieldLevel) bool {
	phone := strings.NewReplacer(" ", "", "-", "").Replace(fl.Field().String())
	return phonePattern.MatchString(phone)
}

func validateDraft(draft Draft) error {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		message, ok := validationMessages[fieldErr.Tag()]
		if !ok {
			message = "is invalid"
		}
		if strings.Contains(message, "%s") {
			message = fmt.Sprintf(message, fieldErr.Param())
		}
		messages = append(messages, strings.ToLower(fieldErr.Field())+" "+message)
	}
	return fmt.Errorf("%w: %s", ErrInvalidDraft, strings.Join(messages, ", "))
}
