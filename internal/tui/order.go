// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user aborts the prompt (Ctrl+C or Esc).
var ErrCancelled = errors.New("prompt cancelled")

// ParseOrder parses a space-separated permutation of 1..n, as typed at the
// ordering prompt, into zero-based indices. Every position must appear
// exactly once.
func ParseOrder(s string, n int) ([]int, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(fields))
	}

	order := make([]int, 0, n)
	seen := make(map[int]bool, n)
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		if v < 1 || v > n {
			return nil, fmt.Errorf("number %d out of range 1-%d", v, n)
		}
		if seen[v] {
			return nil, fmt.Errorf("number %d given twice", v)
		}
		seen[v] = true
		order = append(order, v-1)
	}
	return order, nil
}

var (
	orderTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	orderItemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	orderErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	orderHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// orderModel is the bubbletea model behind OrderPrompt.
type orderModel struct {
	title     string
	items     []string
	input     textinput.Model
	errText   string
	order     []int
	done      bool
	cancelled bool
}

func newOrderModel(title string, items []string) orderModel {
	ti := textinput.New()
	ti.Placeholder = exampleOrder(len(items))
	ti.Prompt = "> "
	ti.Focus()
	return orderModel{title: title, items: items, input: ti}
}

func exampleOrder(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = strconv.Itoa(i + 1)
	}
	return strings.Join(parts, " ")
}

// Init implements tea.Model.
func (m orderModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m orderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			order, err := ParseOrder(m.input.Value(), len(m.items))
			if err != nil {
				m.errText = err.Error()
				return m, nil
			}
			m.order = order
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m orderModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(orderTitleStyle.Render(m.title))
	b.WriteString("\n\n")
	for i, item := range m.items {
		b.WriteString(fmt.Sprintf("  %s %s\n", orderItemStyle.Render(strconv.Itoa(i+1)+"."), item))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.errText != "" {
		b.WriteString(orderErrStyle.Render(m.errText))
		b.WriteString("\n")
	}
	b.WriteString(orderHelpStyle.Render("enter space-separated positions • esc to cancel"))
	b.WriteString("\n")
	return b.String()
}

// OrderPrompt displays the numbered items and asks the user for the order to
// merge them in. It returns zero-based indices into items, or ErrCancelled.
func OrderPrompt(title string, items []string) ([]int, error) {
	m := newOrderModel(title, items)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, fmt.Errorf("order prompt failed: %w", err)
	}

	result, ok := final.(orderModel)
	if !ok || result.cancelled {
		return nil, ErrCancelled
	}
	return result.order, nil
}
