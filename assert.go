package restmatch

import (
	"testing"

	"github.com/mcncl/restmatch/internal/errors"
)

// AssertMatches parses body as JSON, asserts it matches the pattern and
// extracts bindings into the given destinations. On any failure the
// test is stopped with the failing path and expectation.
func AssertMatches(t testing.TB, body []byte, patternSrc string, dests ...Dest) *Result {
	t.Helper()
	res, err := Match(body, patternSrc, dests...)
	if err != nil {
		t.Fatalf("restmatch: %s", errors.UserFriendlyError(err))
	}
	return res
}

// AssertValueMatches is AssertMatches for an already-deserialized
// value.
func AssertValueMatches(t testing.TB, value interface{}, patternSrc string, dests ...Dest) *Result {
	t.Helper()
	res, err := MatchValue(value, patternSrc, dests...)
	if err != nil {
		t.Fatalf("restmatch: %s", errors.UserFriendlyError(err))
	}
	return res
}
