package codec

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/aretw0/quotebook/pkg/core"
)

// collectionSchema describes a serialized collection: an array of objects
// each carrying string "text" and "category" fields.
const collectionSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["text", "category"],
		"properties": {
			"text": {"type": "string"},
			"category": {"type": "string"}
		}
	}
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(collectionSchema))
	})
	return schema, schemaErr
}

// validate checks a document against the collection schema.
// Any failure, including unparseable input, is reported as core.ErrFormat.
func validate(doc gojsonschema.JSONLoader) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("invalid schema definition: %w", err)
	}

	result, err := s.Validate(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrFormat, err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("%w: %s", core.ErrFormat, dumpErrors(errs))
}

// dumpErrors keeps at most three schema errors to avoid massive output.
func dumpErrors(errs []string) string {
	if len(errs) > 3 {
		more := len(errs) - 3
		return strings.Join(errs[:3], "; ") + fmt.Sprintf("; ... and %d more", more)
	}
	return strings.Join(errs, "; ")
}
