// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func enterKey() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func escKey() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEsc} }

func TestParseOrder(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		n       int
		want    []int
		wantErr string
	}{
		{
			name:  "identity",
			input: "1 2 3",
			n:     3,
			want:  []int{0, 1, 2},
		},
		{
			name:  "reversed",
			input: "3 2 1",
			n:     3,
			want:  []int{2, 1, 0},
		},
		{
			name:  "single",
			input: "1",
			n:     1,
			want:  []int{0},
		},
		{
			name:  "extra whitespace tolerated",
			input: "  2   1 ",
			n:     2,
			want:  []int{1, 0},
		},
		{
			name:    "too few",
			input:   "1 2",
			n:       3,
			wantErr: "expected 3 numbers",
		},
		{
			name:    "too many",
			input:   "1 2 3",
			n:       2,
			wantErr: "expected 2 numbers",
		},
		{
			name:    "not a number",
			input:   "1 x",
			n:       2,
			wantErr: `invalid number "x"`,
		},
		{
			name:    "zero out of range",
			input:   "0 1",
			n:       2,
			wantErr: "out of range",
		},
		{
			name:    "above range",
			input:   "1 3",
			n:       2,
			wantErr: "out of range",
		},
		{
			name:    "duplicate",
			input:   "2 2",
			n:       2,
			wantErr: "given twice",
		},
		{
			name:    "empty",
			input:   "",
			n:       2,
			wantErr: "expected 2 numbers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrder(tt.input, tt.n)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("ParseOrder(%q, %d) = %v, want error containing %q", tt.input, tt.n, got, tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOrder(%q, %d): %v", tt.input, tt.n, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("order[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOrderModelRejectsBadInputWithoutQuitting(t *testing.T) {
	m := newOrderModel("Pick an order", []string{"a.pptx", "b.pptx"})
	m.input.SetValue("5 1")

	updated, cmd := m.Update(enterKey())
	next := updated.(orderModel)
	if next.done {
		t.Error("model quit on invalid input")
	}
	if next.errText == "" {
		t.Error("expected validation message after invalid input")
	}
	if cmd != nil {
		t.Error("expected no command while re-prompting")
	}

	next.input.SetValue("2 1")
	updated, _ = next.Update(enterKey())
	final := updated.(orderModel)
	if !final.done || final.cancelled {
		t.Fatal("model did not accept valid input")
	}
	if len(final.order) != 2 || final.order[0] != 1 || final.order[1] != 0 {
		t.Errorf("order = %v, want [1 0]", final.order)
	}
}

func TestOrderModelCancel(t *testing.T) {
	m := newOrderModel("Pick an order", []string{"a.pptx"})
	updated, _ := m.Update(escKey())
	final := updated.(orderModel)
	if !final.done || !final.cancelled {
		t.Error("esc did not cancel the prompt")
	}
}
