package boxed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/toolrl/internal/boxed"
)

func TestExtractSolution(t *testing.T) {
	tests := []struct {
		name     string
		solution string
		want     string
	}{
		{"simple", `The answer is \boxed{4}`, "4"},
		{"last of several", `First \boxed{1}, then \boxed{2}.`, "2"},
		{"nested braces", `So $x = \boxed{\frac{1}{2}}$.`, `\frac{1}{2}`},
		{"trailing text", `\boxed{42} is final. {extra}`, "42"},
		{"space form", `Thus $\boxed 7$ apples.`, "7"},
		{"space form to end", `Thus \boxed 7`, "7"},
		{"fbox fallback", `Result: \fbox{x+1}`, "x+1"},
		{"empty box", `\boxed{}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := boxed.ExtractSolution(tt.solution)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractSolutionErrors(t *testing.T) {
	tests := []struct {
		name     string
		solution string
		want     error
	}{
		{"no marker", "The answer is 4", boxed.ErrNoBoxedAnswer},
		{"empty", "", boxed.ErrNoBoxedAnswer},
		{"unclosed", `\boxed{4`, boxed.ErrUnbalancedBoxed},
		{"no braces", `\boxed4`, boxed.ErrUnbalancedBoxed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := boxed.ExtractSolution(tt.solution)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, got)
		})
	}
}

func TestLastBoxedOnly(t *testing.T) {
	got, err := boxed.LastBoxedOnly(`a \boxed{1} b \boxed{{2}} c`)
	require.NoError(t, err)
	assert.Equal(t, `\boxed{{2}}`, got)
}

func TestRemoveBoxedMalformed(t *testing.T) {
	for _, s := range []string{`\boxed`, `boxed{1}`, `\boxed{1`, `\fbox`} {
		_, err := boxed.RemoveBoxed(s)
		assert.ErrorIs(t, err, boxed.ErrMalformedBoxed, s)
	}
}
