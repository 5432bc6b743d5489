// Package boxed extracts final answers written as \boxed{...} in LaTeX
// solution text.
package boxed

import (
	"errors"
	"strings"
)

var (
	ErrNoBoxedAnswer   = errors.New("no boxed answer in solution")
	ErrUnbalancedBoxed = errors.New("boxed answer has unbalanced braces")
	ErrMalformedBoxed  = errors.New("malformed boxed answer")
)

const (
	boxedMarker      = `\boxed`
	boxedSpaceMarker = `\boxed `
	fboxMarker       = `\fbox`
)

// LastBoxedOnly returns the last boxed expression in s, marker included.
// A bare `\boxed x` form runs until the next '$'.
func LastBoxedOnly(s string) (string, error) {
	if strings.Contains(s, boxedSpaceMarker) {
		tail := s[strings.LastIndex(s, boxedSpaceMarker)+len(boxedSpaceMarker):]
		if i := strings.IndexByte(tail, '$'); i >= 0 {
			tail = tail[:i]
		}
		return boxedSpaceMarker + tail, nil
	}

	idx := strings.LastIndex(s, boxedMarker)
	if idx < 0 {
		idx = strings.LastIndex(s, fboxMarker)
		if idx < 0 {
			return "", ErrNoBoxedAnswer
		}
	}

	depth := 0
	for i := idx; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[idx : i+1], nil
			}
		}
	}
	return "", ErrUnbalancedBoxed
}

// RemoveBoxed strips the marker and braces from a boxed expression.
// \fbox{...} is stripped the same way as \boxed{...}, where verl's
// remove_boxed rejects it, so an fbox-only solution still yields an answer.
func RemoveBoxed(s string) (string, error) {
	if strings.HasPrefix(s, boxedSpaceMarker) {
		return s[len(boxedSpaceMarker):], nil
	}
	for _, left := range []string{boxedMarker + "{", fboxMarker + "{"} {
		if strings.HasPrefix(s, left) && strings.HasSuffix(s, "}") && len(s) > len(left) {
			return s[len(left) : len(s)-1], nil
		}
	}
	return "", ErrMalformedBoxed
}

// ExtractSolution returns the content of the last boxed answer in solution.
func ExtractSolution(solution string) (string, error) {
	b, err := LastBoxedOnly(solution)
	if err != nil {
		return "", err
	}
	return RemoveBoxed(b)
}
