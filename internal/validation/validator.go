package validation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/leadsite-api/internal/models"
)

// ErrInvalidInput marks every validation failure
var ErrInvalidInput = errors.New("invalid input")

// FieldError represents a single validation error
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is a list of field errors. It unwraps to ErrInvalidInput.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Unwrap() error {
	return ErrInvalidInput
}

// Missing returns the names of required fields that were absent, sorted.
func (e Errors) Missing() []string {
	var out []string
	for _, fe := range e {
		if fe.Message == msgRequired {
			out = append(out, fe.Field)
		}
	}
	sort.Strings(out)
	return out
}

const msgRequired = "is required"

// Field limits
const (
	MaxNameLength            = 100
	MaxTestimonialTextLength = 5000
	MaxLocationLabelLength   = 200
)

var (
	offerSchema   = mustSchema(offerSchemaDoc)
	contactSchema = mustSchema(contactSchemaDoc)
)

// ValidateOffer checks an offer submission against its JSON schema
func ValidateOffer(offer *models.OfferSubmission) error {
	return validateSchema(offerSchema, offer)
}

// ValidateContact checks a contact submission against its JSON schema
func ValidateContact(contact *models.ContactSubmission) error {
	return validateSchema(contactSchema, contact)
}

// ValidateTestimonial checks a testimonial upload. hasVideo tells whether a
// file accompanies the submission; text is optional only in that case.
func ValidateTestimonial(sub *models.TestimonialSubmission, hasVideo bool) error {
	var errs Errors

	name := strings.TrimSpace(sub.Name)
	switch {
	case name == "":
		errs = append(errs, FieldError{Field: "name", Message: msgRequired})
	case len([]rune(name)) > MaxNameLength:
		errs = append(errs, FieldError{Field: "name", Message: fmt.Sprintf("must be at most %d characters", MaxNameLength)})
	}

	text := strings.TrimSpace(sub.TestimonialText)
	if text == "" && !hasVideo {
		errs = append(errs, FieldError{Field: "testimonialText", Message: "a testimonial text or a video is required"})
	}
	if len([]rune(text)) > MaxTestimonialTextLength {
		errs = append(errs, FieldError{Field: "testimonialText", Message: fmt.Sprintf("must be at most %d characters", MaxTestimonialTextLength)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateTestimonialUpdate checks a partial edit
func ValidateTestimonialUpdate(u *models.TestimonialUpdate) error {
	var errs Errors
	if u.Empty() {
		errs = append(errs, FieldError{Field: "body", Message: "nothing to update"})
	}
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			errs = append(errs, FieldError{Field: "name", Message: "must not be empty"})
		} else if len([]rune(name)) > MaxNameLength {
			errs = append(errs, FieldError{Field: "name", Message: fmt.Sprintf("must be at most %d characters", MaxNameLength)})
		}
	}
	if u.TestimonialText != nil && len([]rune(*u.TestimonialText)) > MaxTestimonialTextLength {
		errs = append(errs, FieldError{Field: "testimonialText", Message: fmt.Sprintf("must be at most %d characters", MaxTestimonialTextLength)})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateCoordinates checks a map click position
func ValidateCoordinates(lat, lng float64) error {
	var errs Errors
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		errs = append(errs, FieldError{Field: "lat", Message: "must be between -90 and 90"})
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		errs = append(errs, FieldError{Field: "lng", Message: "must be between -180 and 180"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func mustSchema(doc map[string]interface{}) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("invalid built-in schema: %v", err))
	}
	return schema
}

func validateSchema(schema *gojsonschema.Schema, doc interface{}) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := make(Errors, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, toFieldError(desc))
	}
	return errs
}

func toFieldError(desc gojsonschema.ResultError) FieldError {
	field := desc.Field()
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			return FieldError{Field: prop, Message: msgRequired}
		}
	}
	return FieldError{Field: field, Message: desc.Description()}
}
