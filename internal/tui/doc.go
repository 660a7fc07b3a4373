// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive terminal prompts used when deckmerge
// runs without explicit input arguments.
package tui
