package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns the payload as T. Events published in process already
// carry T; payloads read back from the dead-letter file or Kafka are generic
// maps and go through a JSON round trip.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	if p, ok := input.(*T); ok && p != nil {
		return *p, nil
	}

	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, fmt.Errorf("%s: %w", ErrContextDecodePayload, err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("%s: %w", ErrContextDecodePayload, err)
	}
	return result, nil
}
