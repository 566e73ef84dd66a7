package service

import (
	"encoding/json"
	"strings"

	"doctransform/internal/dto"
)

// parseCompletion turns a raw model completion into a StructuredResult via
// three tiers, each looser than the last:
//
//  1. strict: the whole completion is one JSON object
//  2. recovery: parse the substring between the first '{' and the last '}'
//     (handles prose wrappers and markdown code fences)
//  3. fallback: no object anywhere, the raw text becomes Answer
//
// Keys missing from a parsed object are filled with empty defaults; partial
// structure beats no structure.
func parseCompletion(raw string) (dto.StructuredResult, ParseTier) {
	trimmed := strings.TrimSpace(raw)

	if result, ok := tryParseObject(trimmed); ok {
		return result, TierWellFormed
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		if result, ok := tryParseObject(trimmed[start : end+1]); ok {
			return result, TierRecovered
		}
	}

	return dto.StructuredResult{
		EditsApplied: dto.EditsList{},
		Answer:       raw,
	}, TierUnstructured
}

func tryParseObject(s string) (dto.StructuredResult, bool) {
	// Reject non-objects up front: json.Unmarshal would accept "null"
	// silently and arrays would produce a confusing type error.
	if !strings.HasPrefix(s, "{") {
		return dto.StructuredResult{}, false
	}

	var result dto.StructuredResult
	if err := json.Unmarshal([]byte(s), &result); err != nil {
		return dto.StructuredResult{}, false
	}

	// All four keys are present in every result, even when the model
	// omitted some. EditsApplied is a sequence, never nil.
	if result.EditsApplied == nil {
		result.EditsApplied = dto.EditsList{}
	}
	return result, true
}
