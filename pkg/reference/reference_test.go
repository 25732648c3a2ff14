package reference

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	pattern := regexp.MustCompile(`^BK-[A-Z0-9]{8}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		ref, err := Generate("BK")
		require.NoError(t, err)
		assert.Regexp(t, pattern, ref)
		seen[ref] = struct{}{}
	}
	assert.Greater(t, len(seen), 190)
}
