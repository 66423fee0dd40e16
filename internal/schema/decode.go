package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNoPages is returned for a document without any page.
	ErrNoPages = errors.New("site document has no pages")

	// ErrMissingHome is returned when no page is named index.html.
	ErrMissingHome = errors.New("site document has no index.html page")

	// ErrHomeNotFirst is returned when index.html is not the first page.
	ErrHomeNotFirst = errors.New("index.html must be the first page")

	// ErrDuplicateHome is returned when more than one page is named index.html.
	ErrDuplicateHome = errors.New("site document has more than one index.html page")

	// ErrInvalidDocument wraps structural validation failures.
	ErrInvalidDocument = errors.New("invalid site document")

	// ErrNoTemplate is returned for a schema without a template name.
	ErrNoTemplate = errors.New("site schema has no template")
)

var validate = validator.New()

// Validate rejects documents no fallback can repair: zero pages, a missing
// home page, more than one home page, a home page that is not first, or a
// page without a file name.
func (d *Document) Validate() error {
	if len(d.Pages) == 0 {
		return ErrNoPages
	}
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	homes := 0
	for _, p := range d.Pages {
		if p.IsHome() {
			homes++
		}
	}
	switch {
	case homes == 0:
		return ErrMissingHome
	case homes > 1:
		return ErrDuplicateHome
	case d.HomeIndex() > 0:
		return ErrHomeNotFirst
	}
	return nil
}

// Validate checks the envelope and the document it carries.
func (s *SiteSchema) Validate() error {
	if err := validate.Var(s.Template, "required"); err != nil {
		return ErrNoTemplate
	}
	return s.GeneratedData.Validate()
}

// Decode parses the raw JSON produced by the upstream generator into a
// validated Document. Missing optional fields are tolerated; the top-level
// siteMetadata/pages shape is not.
func Decode(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(bytes.TrimSpace(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse site document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DecodeSchema parses a persisted envelope. An empty template name is
// replaced by defaultTemplate before validation.
func DecodeSchema(raw []byte, defaultTemplate string) (*SiteSchema, error) {
	var s SiteSchema
	if err := json.Unmarshal(bytes.TrimSpace(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to parse site schema: %w", err)
	}
	if s.Template == "" {
		s.Template = defaultTemplate
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// DecodeAny accepts either a SiteSchema envelope or a bare Document and
// returns an envelope. Bare documents get defaultTemplate.
func DecodeAny(raw []byte, defaultTemplate string) (*SiteSchema, error) {
	var probe struct {
		GeneratedData json.RawMessage `json:"generatedData"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(raw), &probe); err != nil {
		return nil, fmt.Errorf("failed to parse site file: %w", err)
	}
	if len(probe.GeneratedData) > 0 {
		return DecodeSchema(raw, defaultTemplate)
	}
	doc, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return &SiteSchema{GeneratedData: *doc, Template: defaultTemplate}, nil
}

// Encode serializes an envelope for persistence.
func (s *SiteSchema) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode site schema: %w", err)
	}
	return data, nil
}
