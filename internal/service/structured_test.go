package service

import (
	"encoding/json"
	"testing"

	"doctransform/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompletionWellFormed(t *testing.T) {
	raw := `{"Summary":"A report.","EditsApplied":["fixed dates"],"ConvertedFileLink":"","Answer":"Yes."}`

	result, tier := parseCompletion(raw)

	assert.Equal(t, TierWellFormed, tier)
	assert.Equal(t, "A report.", result.Summary)
	assert.Equal(t, dto.EditsList{"fixed dates"}, result.EditsApplied)
	assert.Equal(t, "", result.ConvertedFileLink)
	assert.Equal(t, "Yes.", result.Answer)
}

func TestParseCompletionWellFormedWithWhitespace(t *testing.T) {
	raw := "\n  {\"Summary\":\"s\",\"EditsApplied\":[],\"ConvertedFileLink\":\"\",\"Answer\":\"a\"}  \n"

	result, tier := parseCompletion(raw)

	assert.Equal(t, TierWellFormed, tier)
	assert.Equal(t, "s", result.Summary)
	assert.Equal(t, "a", result.Answer)
}

func TestParseCompletionRecoversFromProse(t *testing.T) {
	raw := "Sure! Here is the result you asked for:\n" +
		`{"Summary":"wrapped","EditsApplied":[],"ConvertedFileLink":"","Answer":"found it"}` +
		"\nLet me know if you need anything else."

	result, tier := parseCompletion(raw)

	assert.Equal(t, TierRecovered, tier)
	assert.Equal(t, "wrapped", result.Summary)
	assert.Equal(t, "found it", result.Answer)
}

func TestParseCompletionRecoversFromCodeFence(t *testing.T) {
	raw := "```json\n" +
		`{"Summary":"fenced","EditsApplied":["e1","e2"],"ConvertedFileLink":"","Answer":"a"}` +
		"\n```"

	result, tier := parseCompletion(raw)

	assert.Equal(t, TierRecovered, tier)
	assert.Equal(t, "fenced", result.Summary)
	assert.Equal(t, dto.EditsList{"e1", "e2"}, result.EditsApplied)
}

func TestParseCompletionFallbackToRaw(t *testing.T) {
	raw := "The document appears to be a lease agreement for office space."

	result, tier := parseCompletion(raw)

	assert.Equal(t, TierUnstructured, tier)
	assert.Equal(t, raw, result.Answer)
	assert.Empty(t, result.Summary)
	assert.Empty(t, result.ConvertedFileLink)
	require.NotNil(t, result.EditsApplied)
	assert.Empty(t, result.EditsApplied)
}

func TestParseCompletionUnparsableBracesFallBack(t *testing.T) {
	// Braces present but nothing between them parses; the raw text
	// survives untouched as Answer.
	raw := "set {x} to {y} please"

	result, tier := parseCompletion(raw)

	assert.Equal(t, TierUnstructured, tier)
	assert.Equal(t, raw, result.Answer)
}

func TestParseCompletionNullIsNotAnObject(t *testing.T) {
	result, tier := parseCompletion("null")

	assert.Equal(t, TierUnstructured, tier)
	assert.Equal(t, "null", result.Answer)
}

func TestParseCompletionMissingKeysFilled(t *testing.T) {
	raw := `{"Answer":"only answer present"}`

	result, tier := parseCompletion(raw)

	assert.Equal(t, TierWellFormed, tier)
	assert.Equal(t, "only answer present", result.Answer)
	assert.Empty(t, result.Summary)
	assert.Empty(t, result.ConvertedFileLink)
	require.NotNil(t, result.EditsApplied)
	assert.Empty(t, result.EditsApplied)
}

func TestParseCompletionCoercesBareStringEdit(t *testing.T) {
	raw := `{"Summary":"s","EditsApplied":"normalized headers","ConvertedFileLink":"","Answer":"a"}`

	result, tier := parseCompletion(raw)

	assert.Equal(t, TierWellFormed, tier)
	assert.Equal(t, dto.EditsList{"normalized headers"}, result.EditsApplied)
}

func TestParseCompletionRoundTripIsIdempotent(t *testing.T) {
	raw := `{"Summary":"s","EditsApplied":"one edit","ConvertedFileLink":"/files/x.pdf","Answer":"a"}`

	first, tier := parseCompletion(raw)
	require.Equal(t, TierWellFormed, tier)

	// Re-serializing a parsed result and parsing it again must not change
	// it; the coercions only fire on model-shaped input.
	reserialized, err := json.Marshal(first)
	require.NoError(t, err)

	second, tier := parseCompletion(string(reserialized))
	assert.Equal(t, TierWellFormed, tier)
	assert.Equal(t, first, second)
}

func TestStructuredResultSerializesAllKeys(t *testing.T) {
	data, err := json.Marshal(dto.StructuredResult{})
	require.NoError(t, err)

	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &keys))

	// Zero value still carries the full contract, with EditsApplied as []
	assert.Len(t, keys, 4)
	assert.Contains(t, keys, "Summary")
	assert.Contains(t, keys, "EditsApplied")
	assert.Contains(t, keys, "ConvertedFileLink")
	assert.Contains(t, keys, "Answer")
	assert.JSONEq(t, "[]", string(keys["EditsApplied"]))
}
