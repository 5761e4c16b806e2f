// Package validation holds the input schemas checked before any mutation
// is attempted. A failed check yields one FieldError per broken field,
// never a panic or an opaque error.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/devoverflow/internal/apperror"
)

// QuestionInput is the "ask a question" form.
type QuestionInput struct {
	Title       string   `json:"title"       validate:"min=5,max=130"`
	Explanation string   `json:"explanation" validate:"min=20"`
	Tags        []string `json:"tags"        validate:"min=1,max=3,dive,min=1,max=15"`
}

// AnswerInput is the answer form under a question.
type AnswerInput struct {
	Answer string `json:"answer" validate:"min=20"`
}

// ProfileInput is the profile edit form.
type ProfileInput struct {
	Name             string `json:"name"             validate:"min=3,max=50"`
	Username         string `json:"username"         validate:"min=5,max=50"`
	Bio              string `json:"bio"              validate:"min=10,max=150"`
	PortfolioWebsite string `json:"portfolioWebsite" validate:"url"`
	Location         string `json:"location"         validate:"min=3,max=50"`
}

// messages overrides the generic text for specific fields.
var messages = map[string]string{
	"QuestionInput.Title.min":       "Title must contain at least 5 character(s)",
	"QuestionInput.Explanation.min": "It must contain at least 20 character(s)",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name, which is what forms submit.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks input against its schema. It returns nil when every
// constraint holds.
func Validate(input any) []apperror.FieldError {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperror.FieldError{{Field: "", Message: err.Error()}}
	}

	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return fields
}

// Check is Validate wrapped as an error for the service layer.
func Check(input any) error {
	if fields := Validate(input); fields != nil {
		return apperror.InvalidFields(fields)
	}
	return nil
}

// fieldPath turns "QuestionInput.tags[1]" into "tags[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	key := fe.StructNamespace() + "." + fe.Tag()
	if msg, ok := messages[key]; ok {
		return msg
	}

	kind := "String"
	unit := "character(s)"
	if fe.Kind() == reflect.Slice {
		kind = "Array"
		unit = "element(s)"
	}

	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must contain at least %s %s", kind, fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s must contain at most %s %s", kind, fe.Param(), unit)
	case "url":
		return "Invalid url"
	default:
		return fmt.Sprintf("failed %s constraint", fe.Tag())
	}
}
