package reference

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	length   = 8
)

// Generate returns "<prefix>-XXXXXXXX" with an uppercase alphanumeric suffix.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.Generate(alphabet, length)
	if err != nil {
		return "", fmt.Errorf("generate reference: %w", err)
	}
	return prefix + "-" + id, nil
}
