// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "merge presentations"},
			expected: "failed to merge presentations",
		},
		{
			name:     "operation and resource",
			err:      &ActionableError{Operation: "extract package", Resource: "deck.pptx"},
			expected: "failed to extract package: deck.pptx",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "extract package",
				Resource:  "deck.pptx",
				Cause:     errors.New("not a zip archive"),
			},
			expected: "failed to extract package: deck.pptx: not a zip archive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorContextBuilder(t *testing.T) {
	cause := errors.New("boom")
	err := NewErrorContext().
		WithOperation("write output").
		WithResource("merged.pptx").
		WithSuggestion("Check the destination is writable").
		Wrap(cause).
		Build()

	if err == nil {
		t.Fatal("Build returned nil with operation set")
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable via errors.Is")
	}
	formatted := err.Format(false)
	if !strings.Contains(formatted, "• Check the destination is writable") {
		t.Errorf("suggestion missing from Format output: %q", formatted)
	}
}

func TestBuildRequiresOperation(t *testing.T) {
	if err := NewErrorContext().WithResource("x").BuildError(); err != nil {
		t.Errorf("BuildError without operation = %v, want nil", err)
	}
}

func TestFormatVerboseChain(t *testing.T) {
	inner := errors.New("root cause")
	mid := fmt.Errorf("wrapping: %w", inner)
	err := WrapWithContext(mid, "merge presentations", "")

	out := err.Format(true)
	if !strings.Contains(out, "Error chain:") {
		t.Fatalf("verbose chain missing: %q", out)
	}
	if !strings.Contains(out, "root cause") {
		t.Errorf("inner cause missing from chain: %q", out)
	}
}
