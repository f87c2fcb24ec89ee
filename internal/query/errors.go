package query

import "github.com/constellation/core/internal/domain"

// WrapError maps a parser/compiler error onto the domain error taxonomy so
// callers outside this package never need to know about *ParseError.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*ParseError); ok {
		return domain.New(domain.ValidationError, "%s", pe.Error())
	}
	return domain.Wrap(domain.ValidationError, err, "query error")
}
