package rest

import (
	"bytes"
	"encoding/json"
	"errors"
)

// errUnrecognizedShape marks a list payload that is neither a bare JSON
// array nor an envelope with a results field. Read paths treat it as an
// empty list with a logged warning instead of failing the caller.
var errUnrecognizedShape = errors.New("unrecognized list payload shape")

// decodeList normalizes the two list shapes the upstream API produces: a
// bare array, or an envelope object carrying the array under "results"
// alongside pagination metadata.
func decodeList[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errUnrecognizedShape
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, errUnrecognizedShape
		}
		return items, nil

	case '{':
		var envelope struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, errUnrecognizedShape
		}
		if len(envelope.Results) == 0 {
			return nil, errUnrecognizedShape
		}
		var items []T
		if err := json.Unmarshal(envelope.Results, &items); err != nil {
			return nil, errUnrecognizedShape
		}
		return items, nil

	default:
		return nil, errUnrecognizedShape
	}
}
