package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadPayload decodes a JSON payload from r.
func ReadPayload(r io.Reader) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("decode payload: %w", err)
	}
	return p, nil
}

// UnmarshalPayload deserializes JSON bytes to a Payload.
func UnmarshalPayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, err
	}
	return p, nil
}

// ReadPayloadFile reads and decodes a JSON payload file.
func ReadPayloadFile(path string) (Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return Payload{}, err
	}
	defer f.Close()
	return ReadPayload(f)
}

// WritePayload encodes p as indented JSON.
func WritePayload(p Payload, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
