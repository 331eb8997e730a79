// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package payload

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"items list", `{"items":[{"title":"A"},{"title":"B"},{"title":"C"},{"title":"D"}]}`, 4},
		{"empty array", `[]`, 0},
		{"top-level array", `[1,2,3]`, 3},
		{"results list", `{"results":[{"x":1}]}`, 1},
		{"data list", `{"data":[1,2]}`, 2},
		{"data object counts as one", `{"data":{"title":"solo"}}`, 1},
		{"products list", `{"products":[]}`, 0},
		{"first list-valued field wins", `{"items":"not-a-list","results":[1,2]}`, 2},
		{"key count fallback", `{"a":1,"b":2,"c":3}`, 3},
		{"empty object", `{}`, 0},
		{"invalid json", `{nope`, 0},
		{"empty input", ``, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Count(json.RawMessage(tt.raw)))
		})
	}
}

func TestSampleTitles(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		n    int
		want []string
	}{
		{
			name: "first three of four",
			raw:  `{"items":[{"title":"A"},{"title":"B"},{"title":"C"},{"title":"D"}]}`,
			n:    3,
			want: []string{"A", "B", "C"},
		},
		{
			name: "empty array",
			raw:  `[]`,
			n:    3,
			want: []string{},
		},
		{
			name: "top-level array of items",
			raw:  `[{"title":"X"},{"title":"Y"}]`,
			n:    3,
			want: []string{"X", "Y"},
		},
		{
			name: "title field order",
			raw:  `{"results":[{"product_title":"P","name":"N"},{"name":"OnlyName"},{"product_name":"PN"}]}`,
			n:    3,
			want: []string{"P", "OnlyName", "PN"},
		},
		{
			name: "non-object items are skipped",
			raw:  `{"items":[1,{"title":"B"},"str"]}`,
			n:    3,
			want: []string{"B"},
		},
		{
			name: "items without title fields are skipped",
			raw:  `{"items":[{"price":9},{"title":"B"}]}`,
			n:    3,
			want: []string{"B"},
		},
		{
			name: "non-string title values fall through",
			raw:  `{"items":[{"title":42,"name":"fallback"}]}`,
			n:    3,
			want: []string{"fallback"},
		},
		{
			name: "no list field",
			raw:  `{"meta":{"x":1}}`,
			n:    3,
			want: []string{},
		},
		{
			name: "object payload without lists",
			raw:  `{"a":1}`,
			n:    3,
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SampleTitles(json.RawMessage(tt.raw), tt.n))
		})
	}
}

func TestSampleTitlesTruncation(t *testing.T) {
	long := strings.Repeat("x", 150)
	raw := `{"items":[{"title":"` + long + `"}]}`

	titles := SampleTitles(json.RawMessage(raw), 3)
	require.Len(t, titles, 1)
	assert.Len(t, titles[0], 100)
	assert.Equal(t, strings.Repeat("x", 100), titles[0])
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	raw := json.RawMessage(`{"items":[{"title":"Büro-Laptop — 15\" & light","price":999.5}],"status":"done"}`)

	size, err := Save(path, raw)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, size, int64(len(data)))

	// Re-reading yields a value deep-equal to the original payload.
	var got, want any
	require.NoError(t, json.Unmarshal(data, &got))
	require.NoError(t, json.Unmarshal(raw, &want))
	assert.Equal(t, want, got)

	// Non-ASCII stays literal, HTML-significant characters are not escaped.
	assert.Contains(t, string(data), "Büro-Laptop")
	assert.Contains(t, string(data), `& light`)
	assert.NotContains(t, string(data), "\\u0026")
	// Stable two-space indentation.
	assert.Contains(t, string(data), "\n  \"items\"")
}

func TestSaveInvalidPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	_, err := Save(path, json.RawMessage(`{broken`))
	require.Error(t, err)

	// No partial file is left behind.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	_, err := Save(path, json.RawMessage(`{"a":1}`))
	require.NoError(t, err)
	_, err = Save(path, json.RawMessage(`[1,2]`))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []any{float64(1), float64(2)}, got)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := Save(filepath.Join(dir, "results.json"), json.RawMessage(`{"a":1}`))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "results.json", entries[0].Name())
}
