package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrValidation = errors.New("validation error")

var reviewerNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_@.]+$`)

// reservedNames collide with fixed /reviewer/... routes.
var reservedNames = map[string]bool{"list": true, "average": true, "import": true}

var validate = newValidator()

// routableName rejects names that /reviewer/{name} can never reach: the
// fixed route segments, and dot-only names that path cleaning redirects.
func routableName(name string) bool {
	return !reservedNames[name] && strings.Trim(name, ".") != ""
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("reviewer_name", func(fl validator.FieldLevel) bool {
		return reviewerNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("routable_name", func(fl validator.FieldLevel) bool {
		return routableName(fl.Field().String())
	})
	return v
}

type createRules struct {
	Name            string `validate:"required,min=1,max=50,reviewer_name,routable_name"`
	SkillScore      *int   `validate:"omitempty,min=0,max=999"`
	ExperienceScore *int   `validate:"omitempty,min=0,max=999"`
}

type updateRules struct {
	SkillScore      *int `validate:"omitempty,min=0,max=999"`
	ExperienceScore *int `validate:"omitempty,min=0,max=999"`
}

// ValidateCreate checks a new row: a well-formed name and scores in 0..999.
func (in ReviewerInput) ValidateCreate() error {
	return check(createRules{Name: in.Name, SkillScore: in.SkillScore, ExperienceScore: in.ExperienceScore})
}

// ValidateUpdate checks only the supplied scores; the name comes from the path.
func (in ReviewerInput) ValidateUpdate() error {
	return check(updateRules{SkillScore: in.SkillScore, ExperienceScore: in.ExperienceScore})
}

func check(rules any) error {
	err := validate.Struct(rules)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fieldNames[fe.Field()]
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "reviewer_name":
		return field + " may only contain letters, digits, '_', '@' and '.'"
	case "routable_name":
		return fmt.Sprintf("%s %q is reserved", field, fe.Value())
	default:
		return field + " is invalid"
	}
}

var fieldNames = map[string]string{
	"Name":            "name",
	"SkillScore":      "skill_score",
	"ExperienceScore": "experience_score",
}
