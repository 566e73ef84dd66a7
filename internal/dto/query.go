package dto

import "encoding/json"

// StructuredResult is the fixed four-field shape every query returns.
// The JSON key names are part of the contract with the model prompt and
// with API clients; all four keys are always present.
type StructuredResult struct {
	Summary           string    `json:"Summary"`
	EditsApplied      EditsList `json:"EditsApplied"`
	ConvertedFileLink string    `json:"ConvertedFileLink"`
	Answer            string    `json:"Answer"`
}

// EditsList is always serialized as a JSON array. Models drift on this
// field's shape and return a bare string for a single edit; unmarshalling
// coerces that into a one-element list instead of failing.
type EditsList []string

func (e *EditsList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*e = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*e = EditsList{}
		} else {
			*e = EditsList{single}
		}
		return nil
	}

	var null *struct{}
	if err := json.Unmarshal(data, &null); err == nil && null == nil {
		*e = EditsList{}
		return nil
	}

	// Unusable shape: keep the result partial rather than failing it
	*e = EditsList{}
	return nil
}

func (e EditsList) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(e))
}

type QueryRequest struct {
	Query string `json:"query" validate:"required"`
}

type QueryResponse struct {
	Success       bool             `json:"success"`
	Result        StructuredResult `json:"result"`
	RawCompletion string           `json:"raw_completion"`
	JobID         string           `json:"job_id,omitempty"`
}
