package note

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Field limits. Lengths are counted in runes.
const (
	TitleMin   = 3
	TitleMax   = 50
	ContentMax = 500
)

// CreateInput is the payload for creating or replacing a note.
type CreateInput struct {
	Title   string `json:"title" validate:"required,min=3,max=50"`
	Content string `json:"content" validate:"max=500"`
	Tag     Tag    `json:"tag" validate:"required,oneof=Todo Work Personal Meeting Shopping"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the input and returns a single readable error.
func (in CreateInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("%s is invalid", field)
}

// CanSubmit reports whether the create action is enabled for these values:
// title length in [TitleMin, TitleMax] and tag in the allowed set.
// Content is capped by the editor and does not gate submission.
func CanSubmit(title, tag string) bool {
	n := utf8.RuneCountInString(title)
	return n >= TitleMin && n <= TitleMax && Tag(tag).Valid()
}
