package application

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

// Payload is the raw data a create request carries
type Payload struct {
	// JSON is the request body when it was sent as JSON, nil otherwise
	JSON []byte
	// Values holds form fields merged over query arguments
	Values url.Values
}

// ImageInput is a create request that passed validation
type ImageInput struct {
	Name   string `json:"name" validate:"required,max=100"`
	Format string `json:"format" validate:"required,max=100"`
	Size   int64  `json:"size" validate:"gte=0"`
}

// ValidationError lists one message per rejected field
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid image payload: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// field describes where a payload attribute may be found and how it is called in messages
type field struct {
	key     string
	aliases []string
	label   string
}

var (
	nameField   = field{key: "name", aliases: []string{"nombre"}, label: "image name"}
	formatField = field{key: "format", aliases: []string{"formato"}, label: "image format"}
	sizeField   = field{key: "size", label: "image size"}
)

var labels = map[string]string{
	nameField.key:   nameField.label,
	formatField.key: formatField.label,
	sizeField.key:   sizeField.label,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// ValidateImagePayload checks that name, format and size are present with the
// right primitive types, then applies the value rules on ImageInput.
func ValidateImagePayload(p Payload) (ImageInput, error) {
	verr := &ValidationError{}

	var doc *gjson.Result
	if len(p.JSON) > 0 {
		if !gjson.ValidBytes(p.JSON) {
			verr.add("body", "request body is not valid JSON")
			return ImageInput{}, verr
		}
		parsed := gjson.ParseBytes(p.JSON)
		if !parsed.IsObject() {
			verr.add("body", "request body must be a JSON object")
			return ImageInput{}, verr
		}
		doc = &parsed
	}

	var input ImageInput
	input.Name = stringField(doc, p.Values, nameField, verr)
	input.Format = stringField(doc, p.Values, formatField, verr)
	input.Size = intField(doc, p.Values, sizeField, verr)

	if len(verr.Fields) > 0 {
		return ImageInput{}, verr
	}

	if err := validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return ImageInput{}, fmt.Errorf("failed to validate image payload: %w", err)
		}
		for _, fe := range fieldErrs {
			verr.add(fe.Field(), ruleMessage(fe))
		}
		return ImageInput{}, verr
	}

	return input, nil
}

func ruleMessage(fe validator.FieldError) string {
	label := labels[fe.Field()]
	switch fe.Tag() {
	case "required":
		return label + " must not be empty"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "gte":
		return label + " must not be negative"
	default:
		return label + " is invalid"
	}
}

type lookup struct {
	json    gjson.Result
	text    string
	found   bool
	fromDoc bool
}

// find returns the first non-null occurrence of f, JSON before form and query values
func find(doc *gjson.Result, values url.Values, f field) lookup {
	keys := append([]string{f.key}, f.aliases...)
	if doc != nil {
		for _, k := range keys {
			if r := doc.Get(k); r.Exists() && r.Type != gjson.Null {
				return lookup{json: r, found: true, fromDoc: true}
			}
		}
	}
	for _, k := range keys {
		if vs, ok := values[k]; ok && len(vs) > 0 {
			return lookup{text: vs[0], found: true}
		}
	}
	return lookup{}
}

func stringField(doc *gjson.Result, values url.Values, f field, verr *ValidationError) string {
	l := find(doc, values, f)
	if !l.found {
		verr.add(f.key, f.label+" is required")
		return ""
	}
	if !l.fromDoc {
		return l.text
	}
	if l.json.Type != gjson.String {
		verr.add(f.key, f.label+" must be a string")
		return ""
	}
	return l.json.Str
}

func intField(doc *gjson.Result, values url.Values, f field, verr *ValidationError) int64 {
	l := find(doc, values, f)
	if !l.found {
		verr.add(f.key, f.label+" is required")
		return 0
	}

	var raw string
	switch {
	case !l.fromDoc:
		raw = l.text
	case l.json.Type == gjson.Number:
		raw = l.json.Raw
	case l.json.Type == gjson.String:
		raw = l.json.Str
	default:
		verr.add(f.key, f.label+" must be an integer")
		return 0
	}

	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		verr.add(f.key, f.label+" must be an integer")
		return 0
	}
	return n
}
