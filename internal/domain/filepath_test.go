package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFilePath_Valid(t *testing.T) {
	fp, err := NewFilePath(`C:\docs\report.pdf`)
	require.NoError(t, err)
	require.Equal(t, `C:\docs\report.pdf`, fp.String())
}

func TestNewFilePath_Empty(t *testing.T) {
	_, err := NewFilePath("   ")
	require.Error(t, err)
	require.True(t, Is(err, InvalidFilePath))
}

func TestNewFilePath_TraversalRejected(t *testing.T) {
	cases := []string{
		`C:\docs\..\secrets.txt`,
		`C:\docs\.\report.pdf`,
		`./report.pdf`,
		`.\report.pdf`,
		`../report.pdf`,
	}
	for _, path := range cases {
		_, err := NewFilePath(path)
		require.Errorf(t, err, "expected rejection for %q", path)
		require.True(t, Is(err, InvalidFilePath))
	}
}

func TestFilePath_RoundTrip(t *testing.T) {
	const raw = `D:\archive\2024\notes.txt`
	fp, err := NewFilePath(raw)
	require.NoError(t, err)

	again, err := NewFilePath(fp.String())
	require.NoError(t, err)
	require.Equal(t, fp, again)
}

func TestFilePath_MarshalJSON(t *testing.T) {
	fp, err := NewFilePath(`C:\docs\report.pdf`)
	require.NoError(t, err)

	data, err := json.Marshal(fp)
	require.NoError(t, err)
	require.JSONEq(t, `"C:\\docs\\report.pdf"`, string(data))
}

func TestFilePath_IsZero(t *testing.T) {
	var fp FilePath
	require.True(t, fp.IsZero())

	fp, err := NewFilePath(`C:\a.txt`)
	require.NoError(t, err)
	require.False(t, fp.IsZero())
}
