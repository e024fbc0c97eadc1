package httpadapter

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

type candidateRequest struct {
	Category    string   `json:"category" validate:"required,max=64"`
	Subcategory string   `json:"subcategory" validate:"required,max=64"`
	Color       string   `json:"color,omitempty" validate:"max=64"`
	Silhouette  string   `json:"silhouette,omitempty" validate:"max=64"`
	Style       string   `json:"style,omitempty" validate:"max=64"`
	Material    string   `json:"material,omitempty" validate:"max=64"`
	Seasons     []string `json:"seasons,omitempty" validate:"max=4,dive,max=32"`
}

func (c candidateRequest) toDomain() domain.CandidateItem {
	return domain.CandidateItem{
		Category:    c.Category,
		Subcategory: c.Subcategory,
		Color:       c.Color,
		Silhouette:  c.Silhouette,
		Style:       c.Style,
		Material:    c.Material,
		Seasons:     c.Seasons,
	}
}

type createItemRequest struct {
	UserID      string   `json:"user_id" validate:"required,max=128"`
	Name        string   `json:"name" validate:"required,max=200"`
	Category    string   `json:"category" validate:"required,max=64"`
	Subcategory string   `json:"subcategory" validate:"required,max=64"`
	Color       string   `json:"color,omitempty" validate:"max=64"`
	Silhouette  string   `json:"silhouette,omitempty" validate:"max=64"`
	Style       string   `json:"style,omitempty" validate:"max=64"`
	Material    string   `json:"material,omitempty" validate:"max=64"`
	Seasons     []string `json:"seasons,omitempty" validate:"max=4,dive,max=32"`
	Description string   `json:"description,omitempty" validate:"max=2000"`
}

func (r createItemRequest) toDomain() domain.NewItem {
	return domain.NewItem{
		UserID:      r.UserID,
		Name:        r.Name,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Color:       r.Color,
		Silhouette:  r.Silhouette,
		Style:       r.Style,
		Material:    r.Material,
		Seasons:     r.Seasons,
		Description: r.Description,
	}
}

type analysisRequest struct {
	UserID      string           `json:"user_id" validate:"required,max=128"`
	Candidate   candidateRequest `json:"candidate"`
	Description string           `json:"description,omitempty" validate:"max=2000"`
	WithAdvice  bool             `json:"with_advice,omitempty"`
}

type parseExtractionRequest struct {
	Response string `json:"response" validate:"required,max=8000"`
	Category string `json:"category" validate:"required,max=64"`
}

// requestValidator checks decoded request bodies and reports failures as
// ErrInvalidInput with one message per field.
type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		name, _, _ = strings.Cut(name, ",")
		return name
	})
	return &requestValidator{v: v}
}

func (rv *requestValidator) Validate(s any) error {
	err := rv.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return domain.WrapError(domain.ErrInvalidInput, "validate request", err)
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fieldPath(e)+" "+friendlyMessage(e))
	}
	sort.Strings(messages)
	return domain.WrapError(domain.ErrInvalidInput, "validate request", errors.New(strings.Join(messages, "; ")))
}

// fieldPath drops the struct name from the namespace: analysisRequest.candidate.color -> candidate.color.
func fieldPath(e validator.FieldError) string {
	_, path, ok := strings.Cut(e.Namespace(), ".")
	if !ok {
		return e.Field()
	}
	return path
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must not have more than %s entries", e.Param())
		}
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}
