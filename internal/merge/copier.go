// SPDX-License-Identifier: MPL-2.0

package merge

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"deckmerge/pkg/opc"
)

// copier carries the mutable state of one source package's dependency-copy
// pass: the memo from original source paths to freshly assigned destination
// paths, plus both content-type manifests. A copier is owned by exactly one
// pass over one source package and is discarded when that pass ends, so
// parts shared between two different source packages are copied once per
// package, never deduplicated across packages.
type copier struct {
	srcRoot  string // source package content root on disk (…/ppt)
	dstRoot  string // destination package content root on disk
	nameMap  map[string]string
	srcTypes *opc.ContentTypes
	dstTypes *opc.ContentTypes
	logger   *log.Logger
}

func newCopier(srcRoot, dstRoot string, srcTypes, dstTypes *opc.ContentTypes, logger *log.Logger) *copier {
	return &copier{
		srcRoot:  srcRoot,
		dstRoot:  dstRoot,
		nameMap:  make(map[string]string),
		srcTypes: srcTypes,
		dstTypes: dstTypes,
		logger:   logger,
	}
}

// copyPart copies the part at partRel (slash-separated, relative to the
// source content root) and every part it transitively references into the
// destination tree, and returns the destination-relative path. Requesting
// the same source path twice within one pass returns the same destination
// path without copying again.
//
// A source path with no file behind it is not an error: the original
// reference is returned unchanged and nothing is copied. Inventing content
// for a dangling reference would be worse than preserving it.
func (c *copier) copyPart(partRel string) (string, error) {
	if mapped, ok := c.nameMap[partRel]; ok {
		return mapped, nil
	}

	srcPath := filepath.Join(c.srcRoot, filepath.FromSlash(partRel))
	if _, err := os.Stat(srcPath); os.IsNotExist(err) {
		c.logger.Debug("skipping missing part", "part", partRel)
		return partRel, nil
	}

	folder := path.Dir(partRel)
	if folder == "." {
		folder = ""
	}
	fname := path.Base(partRel)

	kind := opc.ClassifyFolder(folder)
	destDir := filepath.Join(c.dstRoot, filepath.FromSlash(folder))
	newName, err := opc.AllocateName(destDir, kind, fname)
	if err != nil {
		return "", err
	}

	dstRel := newName
	if folder != "" {
		dstRel = folder + "/" + newName
	}

	if err := copyFile(srcPath, filepath.Join(c.dstRoot, filepath.FromSlash(dstRel))); err != nil {
		return "", err
	}
	// Record the mapping before recursing so a part reachable from two
	// relationship edges — or from a cycle like slide ↔ notesSlide — is
	// copied exactly once.
	c.nameMap[partRel] = dstRel
	c.logger.Debug("copied part", "from", partRel, "to", dstRel)

	if contentType := kind.ContentType(); contentType != "" {
		c.dstTypes.RegisterOverride(packagePath(dstRel), contentType)
	} else {
		// Media and other unclassified parts are covered by extension
		// defaults carried over from the source manifest.
		c.dstTypes.MergeDefaults(c.srcTypes)
	}

	if err := c.copyRelationships(partRel, dstRel); err != nil {
		return "", err
	}
	return dstRel, nil
}

// copyRelationships copies the part's _rels sibling, recursively copies
// every internal dependency it references, and rewrites those targets to
// point at the new destination names. The .rels part is only re-serialized
// when at least one target changed.
func (c *copier) copyRelationships(partRel, dstRel string) error {
	srcRels := filepath.Join(c.srcRoot, filepath.FromSlash(opc.RelsPath(partRel)))
	if _, err := os.Stat(srcRels); os.IsNotExist(err) {
		// A part with no relationships part has no recursion.
		return nil
	}

	dstRelsPath := filepath.Join(c.dstRoot, filepath.FromSlash(opc.RelsPath(dstRel)))
	if err := copyFile(srcRels, dstRelsPath); err != nil {
		return err
	}

	rels, err := opc.LoadRelationships(dstRelsPath)
	if err != nil {
		return err
	}

	changed := false
	for _, rel := range rels.Items() {
		target := rel.Target()
		if target == "" || rel.External() {
			continue
		}
		// Only parent-relative targets are rewritten; absolute and
		// same-folder references are left untouched, matching the package
		// conventions for cross-folder part references.
		if !strings.HasPrefix(target, "../") {
			continue
		}

		resolved := path.Join(path.Dir(partRel), target)
		for strings.HasPrefix(resolved, "../") {
			resolved = resolved[len("../"):]
		}

		newDep, err := c.copyPart(resolved)
		if err != nil {
			return err
		}

		newTarget, err := relativeTarget(path.Dir(dstRel), newDep)
		if err != nil {
			return err
		}
		rel.SetTarget(newTarget)
		changed = true
	}

	if changed {
		return rels.Save()
	}
	return nil
}

// relativeTarget computes the relationship target from the new owning part's
// folder to the new dependency path, always in parent-relative form.
func relativeTarget(fromDir, toRel string) (string, error) {
	rel, err := filepath.Rel(fromDir, toRel)
	if err != nil {
		return "", fmt.Errorf("failed to compute relative target from %s to %s: %w", fromDir, toRel, err)
	}
	target := filepath.ToSlash(rel)
	if !strings.HasPrefix(target, "../") {
		target = "../" + target
	}
	return target, nil
}

// packagePath converts a content-root-relative part path to the
// package-absolute form used by the content-type manifest.
func packagePath(partRel string) string {
	return "/" + contentRoot + "/" + partRel
}

// copyFile copies bytes verbatim, creating parent directories as needed.
// Binary parts are never parsed.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read part %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create part directory: %w", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("failed to write part %s: %w", dst, err)
	}
	return nil
}
