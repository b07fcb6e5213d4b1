package remote

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/aretw0/quotebook/pkg/core"
)

// Projection maps a remote GET payload onto candidate records.
// Paths use gjson syntax.
type Projection struct {
	// Items locates the item array inside the payload. Empty means the payload itself.
	Items string `mapstructure:"items" yaml:"items"`
	// Text locates the record text inside an item.
	Text string `mapstructure:"text" yaml:"text"`
	// Category locates the record category inside an item. May be empty when
	// DefaultCategory is set.
	Category string `mapstructure:"category" yaml:"category"`
	// DefaultCategory is used when Category is empty or does not resolve.
	DefaultCategory string `mapstructure:"default_category" yaml:"default_category"`
}

// PushProjection maps a local record onto the remote's native field names.
// Paths use sjson syntax.
type PushProjection struct {
	Text     string         `mapstructure:"text" yaml:"text"`
	Category string         `mapstructure:"category" yaml:"category"`
	Extra    map[string]any `mapstructure:"extra" yaml:"extra"`
	// Batch sends all outstanding records as one JSON array instead of one request each.
	Batch bool `mapstructure:"batch" yaml:"batch"`
}

// Schema bundles both directions of the field mapping.
type Schema struct {
	Fetch Projection     `mapstructure:"fetch" yaml:"fetch"`
	Push  PushProjection `mapstructure:"push" yaml:"push"`
}

// Presets for the payload shapes seen in the wild.
var (
	// PresetJSONPlaceholder reads a bare array of {title, body} posts and
	// writes {title, body, userId}.
	PresetJSONPlaceholder = Schema{
		Fetch: Projection{Text: "body", Category: "title"},
		Push: PushProjection{
			Text:     "body",
			Category: "title",
			Extra:    map[string]any{"userId": 1},
		},
	}

	// PresetDummyJSON reads {"quotes": [{quote, author}]} and writes {text, category}.
	PresetDummyJSON = Schema{
		Fetch: Projection{Items: "quotes", Text: "quote", Category: "author", DefaultCategory: "Remote"},
		Push:  PushProjection{Text: "text", Category: "category"},
	}

	// PresetNative reads and writes {text, category} arrays.
	PresetNative = Schema{
		Fetch: Projection{Text: "text", Category: "category"},
		Push:  PushProjection{Text: "text", Category: "category"},
	}
)

// Preset returns a named schema.
func Preset(name string) (Schema, error) {
	switch strings.ToLower(name) {
	case "", "native":
		return PresetNative, nil
	case "jsonplaceholder":
		return PresetJSONPlaceholder, nil
	case "dummyjson":
		return PresetDummyJSON, nil
	default:
		return Schema{}, fmt.Errorf("unknown remote preset: %q", name)
	}
}

// Translate projects a raw payload into candidate records.
//
// A payload that is not JSON, or whose item path does not resolve to an array,
// yields core.ErrFormat. Individual items that lack a string text or category
// after projection are dropped silently.
func (p Projection) Translate(payload []byte) ([]core.Record, error) {
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("%w: remote payload is not valid JSON", core.ErrFormat)
	}

	items := gjson.ParseBytes(payload)
	if p.Items != "" {
		items = items.Get(p.Items)
	}
	if !items.IsArray() {
		return nil, fmt.Errorf("%w: remote payload has no item array at %q", core.ErrFormat, p.Items)
	}

	var out []core.Record
	items.ForEach(func(_, item gjson.Result) bool {
		if r, ok := p.project(item); ok {
			out = append(out, r)
		}
		return true
	})
	return out, nil
}

func (p Projection) project(item gjson.Result) (core.Record, bool) {
	text := item.Get(p.Text)
	if p.Text == "" || text.Type != gjson.String {
		return core.Record{}, false
	}

	category := p.DefaultCategory
	if p.Category != "" {
		if c := item.Get(p.Category); c.Type == gjson.String && strings.TrimSpace(c.Str) != "" {
			category = c.Str
		}
	}

	r, err := core.NewRecord(text.Str, category)
	if err != nil {
		return core.Record{}, false
	}
	return r, true
}

// Render projects one record into the remote's native JSON object.
func (p PushProjection) Render(r core.Record) ([]byte, error) {
	doc := []byte(`{}`)
	var err error

	keys := make([]string, 0, len(p.Extra))
	for key := range p.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if doc, err = sjson.SetBytes(doc, key, p.Extra[key]); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	if doc, err = sjson.SetBytes(doc, p.textPath(), r.Text); err != nil {
		return nil, fmt.Errorf("failed to set text: %w", err)
	}
	if doc, err = sjson.SetBytes(doc, p.categoryPath(), r.Category); err != nil {
		return nil, fmt.Errorf("failed to set category: %w", err)
	}
	return doc, nil
}

// RenderBatch projects records into a JSON array of native objects.
func (p PushProjection) RenderBatch(records []core.Record) ([]byte, error) {
	doc := []byte(`[]`)
	for _, r := range records {
		item, err := p.Render(r)
		if err != nil {
			return nil, err
		}
		if doc, err = sjson.SetRawBytes(doc, "-1", item); err != nil {
			return nil, fmt.Errorf("failed to append item: %w", err)
		}
	}
	return doc, nil
}

func (p PushProjection) textPath() string {
	if p.Text == "" {
		return "text"
	}
	return p.Text
}

func (p PushProjection) categoryPath() string {
	if p.Category == "" {
		return "category"
	}
	return p.Category
}
