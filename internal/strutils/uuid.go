package strutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidUUID = errors.New("invalid uuid")

// NormalizeUUID accepts a hex UUID in any case with dashes anywhere and returns the
// lowercase 8-4-4-4-12 form
func NormalizeUUID(raw string) (string, error) {
	stripped := strings.ReplaceAll(raw, "-", "")

	// uuid.Parse also accepts urn and brace forms, which are not valid user ids
	if len(stripped) != 32 {
		return "", fmt.Errorf("%w: expected 32 hex digits, got %d characters. input: '%.50s'", ErrInvalidUUID, len(stripped), raw)
	}

	parsed, err := uuid.Parse(stripped)
	if err != nil {
		return "", fmt.Errorf("%w: %w. input: '%.50s'", ErrInvalidUUID, err, raw)
	}

	return parsed.String(), nil
}

func UUIDIsNormalized(id string) bool {
	normalized, err := NormalizeUUID(id)
	return err == nil && normalized == id
}
