package test

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava12/vcfcheck"
)

func fatalf(t *testing.T, message string, params ...any) {
	t.Helper()
	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}
	_, thisFile, _, _ := runtime.Caller(0)
	file := thisFile
	line := 0
	for i := 2; file == thisFile; i++ {
		_, file, line, _ = runtime.Caller(i)
	}
	t.Fatalf("%s at %s:%d", message, file, line)
}

func Assert(t *testing.T, cond bool, message string, params ...any) {
	t.Helper()
	if !cond {
		fatalf(t, message, params...)
	}
}

func Expect(t *testing.T, cond bool, expected, got any) {
	t.Helper()
	if !cond {
		fatalf(t, "expecting %v, got %v", expected, got)
	}
}

func ExpectBool(t *testing.T, expected, got bool) {
	t.Helper()
	Expect(t, expected == got, expected, got)
}

func ExpectInt(t *testing.T, expected, got int) {
	t.Helper()
	Expect(t, expected == got, expected, got)
}

// ExpectErrorCategory fails unless e is a *vcfcheck.Error of given category.
func ExpectErrorCategory(t *testing.T, expected vcfcheck.Category, e error) {
	t.Helper()
	if e != nil {
		ee, valid := e.(*vcfcheck.Error)
		if valid && ee.Category == expected {
			return
		}
	}

	fatalf(t, "expecting %s error, got %v", expected, e)
}

// Diag is a compact expectation for a diagnostic: category and line.
type Diag struct {
	Category vcfcheck.Category
	Line     int
}

// ExpectDiagnostics compares categories and lines of diagnostics in order.
func ExpectDiagnostics(t *testing.T, expected []Diag, got []*vcfcheck.Error) {
	t.Helper()
	actual := make([]Diag, len(got))
	for i, e := range got {
		actual[i] = Diag{e.Category, e.Line}
	}
	if len(expected) == 0 {
		expected = []Diag{}
	}
	require.Equal(t, expected, actual, "diagnostics: %v", got)
}

// Categories extracts diagnostic categories in order.
func Categories(errs []*vcfcheck.Error) []vcfcheck.Category {
	result := make([]vcfcheck.Category, len(errs))
	for i, e := range errs {
		result[i] = e.Category
	}
	return result
}
