package assert

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func Equal[T comparable](t *testing.T, actual, expected T) {
	t.Helper()

	if actual != expected {
		t.Errorf("got: %v; want %v", actual, expected)
	}
}

func StringContains(t *testing.T, actual, expectedSubstring string) {
	t.Helper()

	if !strings.Contains(actual, expectedSubstring) {
		t.Errorf("got: %q; expected to contain: %q", actual, expectedSubstring)
	}
}

func NilError(t *testing.T, actual error) {
	t.Helper()

	if actual != nil {
		t.Errorf("got: %v; expected: nil", actual)
	}
}

func ErrorIs(t *testing.T, actual, expected error) {
	t.Helper()

	if !errors.Is(actual, expected) {
		t.Errorf("got: %v; expected error: %v", actual, expected)
	}
}

func StringSliceEqual(t *testing.T, actual, expected []string) {
	t.Helper()

	if slices.Compare(actual, expected) != 0 {
		t.Errorf("got [%s], expected: [%s]", strings.Join(actual, ", "), strings.Join(expected, ","+
			" "))
	}
}

func Int64SliceEqual(t *testing.T, actual, expected []int64) {
	t.Helper()

	if slices.Compare(actual, expected) != 0 {
		t.Errorf("got %v, expected: %v", actual, expected)
	}
}
