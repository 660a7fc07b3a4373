// SPDX-License-Identifier: EPL-2.0

package opc

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// numberPattern extracts the first numeric run from a filename, matching the
// sequential naming convention slideN.xml / slideLayoutN.xml / etc.
var numberPattern = regexp.MustCompile(`(\d+)`)

// AllocateName returns a filename that does not collide with any existing
// file in destDir at call time. Numbered kinds get prefix + (max found + 1) +
// ".xml"; everything else keeps originalName when free, otherwise a numeric
// suffix is appended before the extension and incremented until free.
//
// The allocator does not reserve the name: the caller must create the file
// before asking for another name in the same folder. The merge is
// single-threaded, which makes scan-then-allocate safe.
func AllocateName(destDir string, kind Kind, originalName string) (string, error) {
	if kind.Numbered() {
		n, err := maxIndex(destDir, kind.Prefix(), ".xml")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s%d.xml", kind.Prefix(), n+1), nil
	}
	return uniqueName(destDir, originalName)
}

// maxIndex scans destDir for filenames with the given prefix and suffix and
// returns the largest embedded number, or 0 when the folder is empty or does
// not exist yet.
func maxIndex(destDir, prefix, suffix string) (int, error) {
	entries, err := os.ReadDir(destDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan destination folder %s: %w", destDir, err)
	}

	mx := 0
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		if m := numberPattern.FindString(name); m != "" {
			if n, err := strconv.Atoi(m); err == nil && n > mx {
				mx = n
			}
		}
	}
	return mx, nil
}

// uniqueName keeps originalName if unused in destDir, else appends _1, _2,
// ... before the extension until an unused name is found.
func uniqueName(destDir, originalName string) (string, error) {
	candidate := originalName
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(originalName, ext)

	for i := 1; ; i++ {
		_, err := os.Stat(filepath.Join(destDir, candidate))
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to probe destination name %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
}
