package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTagValue_Valid(t *testing.T) {
	tv, err := NewTagValue("  work  ")
	require.NoError(t, err)
	require.Equal(t, "work", tv.String())
}

func TestNewTagValue_Empty(t *testing.T) {
	cases := []string{"", "   ", "\t\n"}
	for _, raw := range cases {
		_, err := NewTagValue(raw)
		require.Errorf(t, err, "expected %q to be rejected", raw)
		require.True(t, Is(err, InvalidTagValue))
	}
}

func TestTagValue_MarshalJSON(t *testing.T) {
	tv, err := NewTagValue("personal")
	require.NoError(t, err)

	data, err := json.Marshal(tv)
	require.NoError(t, err)
	require.JSONEq(t, `"personal"`, string(data))
}

func TestTagValue_IsZero(t *testing.T) {
	var tv TagValue
	require.True(t, tv.IsZero())
}

func TestInvalidTagValueValue(t *testing.T) {
	tv := InvalidTagValueValue()
	require.Equal(t, invalidTagValueSentinel, tv.String())
}
