package thumbnail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWebP_ProducesNonEmptyOutput(t *testing.T) {
	data, err := encodeWebP(solidImage())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
