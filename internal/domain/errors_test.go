package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_FormatsMessage(t *testing.T) {
	err := New(ItemNotFound, "item %d not found", 42)
	require.Equal(t, "ItemNotFound: item 42 not found", err.Error())
}

func TestWrap_PreservesUnderlyingError(t *testing.T) {
	underlying := errors.New("disk full")
	err := Wrap(DatabaseError, underlying, "save failed")
	require.ErrorIs(t, err, underlying)
}

func TestKindOf_ExtractsKind(t *testing.T) {
	err := New(TagNotFound, "tag %d not found", 1)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, TagNotFound, kind)
}

func TestKindOf_NonDomainError(t *testing.T) {
	_, ok := KindOf(errors.New("plain error"))
	require.False(t, ok)
}

func TestIs_MatchesByKindNotMessage(t *testing.T) {
	a := New(DuplicateEntry, "tag %q already exists", "work")
	b := New(DuplicateEntry, "a completely different message")
	require.True(t, Is(a, DuplicateEntry))
	require.True(t, errors.Is(a, b))
}

func TestIs_DoesNotMatchDifferentKind(t *testing.T) {
	err := New(ValidationError, "bad input")
	require.False(t, Is(err, DatabaseError))
}

func TestWrap_KindOfReportsOutermostKind(t *testing.T) {
	inner := New(ItemNotFound, "item 1 not found")
	outer := Wrap(ValidationError, inner, "could not apply template")
	kind, ok := KindOf(outer)
	require.True(t, ok)
	require.Equal(t, ValidationError, kind)
}
