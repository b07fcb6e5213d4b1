package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quotebook/pkg/core"
)

func TestProjection_Translate(t *testing.T) {
	t.Run("Bare Array", func(t *testing.T) {
		payload := `[
			{"userId": 1, "id": 1, "title": "Wisdom", "body": "Know thyself."},
			{"userId": 1, "id": 2, "title": "  ", "body": "No category."},
			{"userId": 1, "id": 3, "body": "Missing title."},
			{"userId": 1, "id": 4, "title": "Numbers", "body": 42},
			{"userId": 1, "id": 5, "title": "Wisdom", "body": "  Padded.  "}
		]`

		got, err := PresetJSONPlaceholder.Fetch.Translate([]byte(payload))
		require.NoError(t, err)
		assert.Equal(t, []core.Record{
			{Text: "Know thyself.", Category: "Wisdom"},
			{Text: "Padded.", Category: "Wisdom"},
		}, got)
	})

	t.Run("Nested Quotes Array", func(t *testing.T) {
		payload := `{"quotes": [
			{"id": 1, "quote": "Be yourself.", "author": "Oscar Wilde"},
			{"id": 2, "quote": "Anonymous wisdom."},
			{"id": 3, "author": "Nobody"}
		], "total": 3}`

		got, err := PresetDummyJSON.Fetch.Translate([]byte(payload))
		require.NoError(t, err)
		assert.Equal(t, []core.Record{
			{Text: "Be yourself.", Category: "Oscar Wilde"},
			{Text: "Anonymous wisdom.", Category: "Remote"},
		}, got)
	})

	t.Run("Native", func(t *testing.T) {
		got, err := PresetNative.Fetch.Translate([]byte(`[{"text":"A","category":"X"},{"text":"B","category":"Y"}]`))
		require.NoError(t, err)
		assert.Equal(t, []core.Record{{Text: "A", Category: "X"}, {Text: "B", Category: "Y"}}, got)
	})

	t.Run("Empty Array", func(t *testing.T) {
		got, err := PresetNative.Fetch.Translate([]byte(`[]`))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	for name, payload := range map[string]string{
		"Invalid JSON":       `[{"text":`,
		"Object At Root":     `{"text":"A","category":"X"}`,
		"Missing Items Path": `{"data": []}`,
	} {
		t.Run(name, func(t *testing.T) {
			p := PresetNative.Fetch
			if name == "Missing Items Path" {
				p = PresetDummyJSON.Fetch
			}
			_, err := p.Translate([]byte(payload))
			assert.ErrorIs(t, err, core.ErrFormat)
		})
	}
}

func TestPushProjection_Render(t *testing.T) {
	r := core.Record{Text: "Know thyself.", Category: "Wisdom"}

	t.Run("Native Names", func(t *testing.T) {
		body, err := PresetJSONPlaceholder.Push.Render(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{"title":"Wisdom","body":"Know thyself.","userId":1}`, string(body))
	})

	t.Run("Defaults To Text And Category", func(t *testing.T) {
		body, err := PushProjection{}.Render(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{"text":"Know thyself.","category":"Wisdom"}`, string(body))
	})

	t.Run("Nested Paths", func(t *testing.T) {
		body, err := PushProjection{Text: "quote.body", Category: "quote.tag"}.Render(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{"quote":{"body":"Know thyself.","tag":"Wisdom"}}`, string(body))
	})

	t.Run("Batch", func(t *testing.T) {
		body, err := PresetNative.Push.RenderBatch([]core.Record{r, {Text: "B", Category: "Y"}})
		require.NoError(t, err)
		assert.JSONEq(t, `[{"text":"Know thyself.","category":"Wisdom"},{"text":"B","category":"Y"}]`, string(body))
	})
}

func TestPreset(t *testing.T) {
	s, err := Preset("JSONPlaceholder")
	require.NoError(t, err)
	assert.Equal(t, "title", s.Fetch.Category)

	s, err = Preset("")
	require.NoError(t, err)
	assert.Equal(t, PresetNative.Fetch, s.Fetch)

	_, err = Preset("nope")
	assert.Error(t, err)
}
