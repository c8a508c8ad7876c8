package strutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// decodeJSONValue decodes a single JSON document, keeping numbers as their literal text
// so that large integers survive the comparison exactly.
func decodeJSONValue(raw []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("trailing data after json document")
	}
	return value, nil
}

// JSONStringsEqual reports whether two JSON documents hold the same value,
// ignoring whitespace and object key order
func JSONStringsEqual(a, b []byte) (bool, error) {
	valueA, err := decodeJSONValue(a)
	if err != nil {
		return false, err
	}

	valueB, err := decodeJSONValue(b)
	if err != nil {
		return false, err
	}

	return reflect.DeepEqual(valueA, valueB), nil
}
