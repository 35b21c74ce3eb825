package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/unfold/internal/parser"
	"github.com/mcncl/unfold/internal/tree"
)

func build(t *testing.T, src string) *tree.Tree {
	t.Helper()
	doc, err := parser.ParseString(src)
	require.NoError(t, err)
	return tree.Build(doc.Root)
}

func TestAnalyze_SimpleObject(t *testing.T) {
	tr := build(t, `{"name": "John Doe", "age": 30, "is_student": false, "score": 99.5, "nickname": null}`)

	stats := NewAnalyzer().Analyze(tr)

	assert.Equal(t, 6, stats.Nodes)
	assert.Equal(t, 1, stats.Objects)
	assert.Equal(t, 0, stats.Arrays)
	assert.Equal(t, 1, stats.Strings)
	assert.Equal(t, 2, stats.Numbers)
	assert.Equal(t, 1, stats.Bools)
	assert.Equal(t, 1, stats.Nulls)
	assert.Equal(t, 5, stats.Leaves)
	assert.Equal(t, 1, stats.MaxDepth)
	assert.Equal(t, 1, stats.Containers())
	assert.Empty(t, stats.Formats)
}

func TestAnalyze_NestedObject(t *testing.T) {
	jsonInput := `{
		"user_id": 123,
		"profile": {
			"full_name": "John Doe",
			"address": {
				"street": "123 Main St",
				"lines": []
			}
		},
		"roles": [{"name": "admin"}, {"name": "dev"}]
	}`
	tr := build(t, jsonInput)

	stats := NewAnalyzer().Analyze(tr)

	assert.Equal(t, 3, stats.MaxDepth)
	assert.Equal(t, 5, stats.Objects)
	assert.Equal(t, 2, stats.Arrays)
	assert.Equal(t, 4, stats.Strings)
	assert.Equal(t, 1, stats.Numbers)
	assert.Equal(t, 6, stats.Leaves, "empty array counts as a leaf")
	assert.Equal(t, 12, stats.Nodes)
}

func TestAnalyze_SpecialFormats(t *testing.T) {
	jsonInput := `{
		"event_id": "a1b2c3d4-e5f6-7777-8888-99990000aaaa",
		"created_at": "2023-01-15T10:30:00Z",
		"day": "2023-01-15",
		"seen": 1673778600,
		"seen_ms": 1673778600000,
		"homepage": "https://example.com/x",
		"contact": "john.doe@example.com"
	}`
	tr := build(t, jsonInput)

	stats := NewAnalyzer().Analyze(tr)

	assert.Equal(t, map[Format]int{
		FormatUUID:          1,
		FormatRFC3339:       1,
		FormatDate:          1,
		FormatUnixTimestamp: 1,
		FormatUnixMilli:     1,
		FormatURL:           1,
		FormatEmail:         1,
	}, stats.Formats)

	withoutFormats := NewAnalyzerWithFormats(false).Analyze(tr)
	assert.Empty(t, withoutFormats.Formats)
	assert.Equal(t, stats.Nodes, withoutFormats.Nodes)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name  string
		value tree.Value
		want  Format
	}{
		{name: "uuid", value: tree.String("123e4567-e89b-12d3-a456-426614174000"), want: FormatUUID},
		{name: "rfc3339 with offset", value: tree.String("2023-01-15T10:30:00.123+02:00"), want: FormatRFC3339},
		{name: "iso8601 without zone", value: tree.String("2023-01-15T10:30:00"), want: FormatISO8601},
		{name: "datetime", value: tree.String("2023-01-15 10:30:00"), want: FormatDateTime},
		{name: "plain text", value: tree.String("hello"), want: FormatNone},
		{name: "small number", value: tree.Number(42), want: FormatNone},
		{name: "fractional timestamp", value: tree.Number(1673778600.5), want: FormatNone},
		{name: "bool", value: tree.Bool(true), want: FormatNone},
		{name: "null", value: tree.Null(), want: FormatNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.value))
		})
	}
}

func TestAnalyze_EmptyTree(t *testing.T) {
	stats := NewAnalyzer().Analyze(tree.New())

	assert.Equal(t, 0, stats.Nodes)
	assert.Equal(t, 0, stats.MaxDepth)
}

func TestAnalyze_ScalarRoot(t *testing.T) {
	stats := NewAnalyzer().Analyze(build(t, `"just a string"`))

	assert.Equal(t, 1, stats.Nodes)
	assert.Equal(t, 1, stats.Strings)
	assert.Equal(t, 1, stats.Leaves)
	assert.Equal(t, 0, stats.MaxDepth)
}
