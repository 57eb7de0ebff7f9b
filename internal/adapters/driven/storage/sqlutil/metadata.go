package sqlutil

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeMetadata marshals document metadata, storing nil as an empty object.
func EncodeMetadata(metadata map[string]any) (string, error) {
	if metadata == nil {
		return "{}", nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("marshalling metadata: %w", err)
	}
	return string(data), nil
}

// DecodeMetadata unmarshals document metadata. Whole numbers come back as
// int64 and other numbers as float64.
func DecodeMetadata(data []byte) (map[string]any, error) {
	metadata := make(map[string]any)
	if len(bytes.TrimSpace(data)) == 0 {
		return metadata, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}

	for key, value := range metadata {
		num, ok := value.(json.Number)
		if !ok {
			continue
		}
		if i, err := num.Int64(); err == nil {
			metadata[key] = i
		} else if f, err := num.Float64(); err == nil {
			metadata[key] = f
		}
	}
	return metadata, nil
}
