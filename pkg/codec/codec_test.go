package codec_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quotebook/pkg/codec"
	"github.com/aretw0/quotebook/pkg/core"
)

func TestJSON_Decode(t *testing.T) {
	t.Run("Valid Array", func(t *testing.T) {
		got, err := codec.JSON{}.Decode([]byte(`[{"text":"A","category":"X"},{"text":"B","category":"Y","extra":1}]`))
		require.NoError(t, err)

		want := []core.Record{{Text: "A", Category: "X"}, {Text: "B", Category: "Y"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("decoded records mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Empty Array", func(t *testing.T) {
		got, err := codec.JSON{}.Decode([]byte(`[]`))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	rejected := map[string]string{
		"Object Instead Of Array": `{"not":"an array"}`,
		"Missing Category":        `[{"text":"A"}]`,
		"Numeric Text":            `[{"text":42,"category":"X"}]`,
		"Array Of Strings":        `["A","B"]`,
		"Not JSON":                `[{"text":`,
		"Null":                    `null`,
	}
	for name, payload := range rejected {
		t.Run(name, func(t *testing.T) {
			_, err := codec.JSON{}.Decode([]byte(payload))
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrFormat)
		})
	}
}

func TestJSON_Encode(t *testing.T) {
	data, err := codec.JSON{}.Encode([]core.Record{{Text: "A", Category: "X"}})
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"text\": \"A\",\n    \"category\": \"X\"\n  }\n]", string(data))

	empty, err := codec.JSON{}.Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestYAML_RoundTrip(t *testing.T) {
	records := core.DefaultRecords()

	data, err := codec.YAML{}.Encode(records)
	require.NoError(t, err)

	got, err := codec.YAML{}.Decode(data)
	require.NoError(t, err)
	if diff := cmp.Diff(records, got); diff != "" {
		t.Errorf("yaml round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestYAML_RejectsMapping(t *testing.T) {
	_, err := codec.YAML{}.Decode([]byte("not: an array\n"))
	assert.ErrorIs(t, err, core.ErrFormat)
}
