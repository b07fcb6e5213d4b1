// Package codec serializes record collections.
//
// Both formats validate the payload shape with a JSON schema before decoding,
// so a payload that is not an array of {text, category} objects is rejected
// with core.ErrFormat instead of being silently coerced.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/quotebook/pkg/core"
)

// Format names accepted by core.Service.RegisterCodec.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// JSON is the default codec, also used for the persisted slot.
type JSON struct{}

// Decode implements core.Codec.
func (JSON) Decode(data []byte) ([]core.Record, error) {
	if err := validate(gojsonschema.NewBytesLoader(data)); err != nil {
		return nil, err
	}

	var records []core.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFormat, err)
	}
	return records, nil
}

// Encode implements core.Codec. Output is indented with two spaces.
func (JSON) Encode(records []core.Record) ([]byte, error) {
	if records == nil {
		records = []core.Record{}
	}
	return json.MarshalIndent(records, "", "  ")
}

// YAML reads and writes the same shape as a YAML sequence.
type YAML struct{}

// Decode implements core.Codec.
func (YAML) Decode(data []byte) ([]core.Record, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFormat, err)
	}
	if err := validate(gojsonschema.NewGoLoader(raw)); err != nil {
		return nil, err
	}

	var records []core.Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFormat, err)
	}
	return records, nil
}

// Encode implements core.Codec.
func (YAML) Encode(records []core.Record) ([]byte, error) {
	if records == nil {
		records = []core.Record{}
	}
	return yaml.Marshal(records)
}

// Register installs the built-in codecs on a service.
func Register(svc *core.Service) {
	svc.RegisterCodec(FormatJSON, JSON{})
	svc.RegisterCodec(FormatYAML, YAML{})
}

var (
	_ core.Codec = JSON{}
	_ core.Codec = YAML{}
)
