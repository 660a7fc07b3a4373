// SPDX-License-Identifier: MPL-2.0

package main

import (
	cmd "deckmerge/cmd/deckmerge"
)

func main() {
	cmd.Execute()
}
