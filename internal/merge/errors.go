// SPDX-License-Identifier: MPL-2.0

package merge

import "fmt"

// InvalidInputError reports a caller-supplied input that cannot be merged:
// zero inputs, a non-existent path, or a file with the wrong extension.
type InvalidInputError struct {
	// Path is the offending input, empty when the problem is the input list
	// itself.
	Path string
	// Reason describes why the input was rejected.
	Reason string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input %s: %s", e.Path, e.Reason)
}
