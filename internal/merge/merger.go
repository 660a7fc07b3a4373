// SPDX-License-Identifier: MPL-2.0

package merge

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"deckmerge/internal/archive"
	"deckmerge/internal/issue"
	"deckmerge/pkg/opc"
)

// contentRoot is the presentation content root inside a package.
const contentRoot = "ppt"

// Options configures one merge operation. A merge is a single synchronous
// pass; the engine holds no state beyond the call.
type Options struct {
	// Inputs is the ordered list of package files. The first entry is the
	// base package whose slides come first and keep their existing names.
	Inputs []string
	// Output is the destination package file. It is written only after
	// every base-tree mutation has succeeded — a failed merge leaves no
	// partial output in its place.
	Output string
	// Logger receives per-input and per-part progress. Nil discards logs.
	Logger *log.Logger
}

// basePackage is the extracted base working tree together with live handles
// to its three manifest parts. It is mutated across the whole merge and
// persisted once at the end.
type basePackage struct {
	root  string
	pres  *presentation
	rels  *opc.Relationships
	types *opc.ContentTypes

	// maxSlideID and the relationship set's id counter are the only global
	// counters of the merge; both live exactly as long as one Merge call.
	maxSlideID int
}

// Merge merges the slides of all input packages into one output package.
// Slides appear in the output in exactly the order: all of the first
// input's slides unchanged, then each further input's slides in that
// input's own display order.
func Merge(opts Options) error {
	if len(opts.Inputs) == 0 {
		return &InvalidInputError{Reason: "at least one input file is required"}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	workDir, err := os.MkdirTemp("", "deckmerge-")
	if err != nil {
		return fmt.Errorf("failed to create working directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	baseDir := filepath.Join(workDir, "base")
	if err := archive.Extract(opts.Inputs[0], baseDir); err != nil {
		return issue.NewErrorContext().
			WithOperation("extract base package").
			WithResource(opts.Inputs[0]).
			WithSuggestion("Check that the file is a valid .pptx package").
			Wrap(err).
			BuildError()
	}

	base, err := openBase(baseDir)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("load base package").
			WithResource(opts.Inputs[0]).
			WithSuggestion("The package may be missing its presentation manifest").
			Wrap(err).
			BuildError()
	}

	for _, input := range opts.Inputs[1:] {
		srcDir := filepath.Join(workDir, "src-"+uuid.NewString())
		if err := archive.Extract(input, srcDir); err != nil {
			return issue.NewErrorContext().
				WithOperation("extract package").
				WithResource(input).
				WithSuggestion("Check that the file is a valid .pptx package").
				Wrap(err).
				BuildError()
		}
		added, err := base.mergeFrom(srcDir, logger)
		if err != nil {
			return issue.WrapWithContext(err, "merge package", input)
		}
		logger.Info("merged package", "input", input, "slides", added)
	}

	if err := base.persist(); err != nil {
		return issue.WrapWithContext(err, "save merged package manifests", "")
	}

	if dir := filepath.Dir(opts.Output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &archive.WriteError{Path: opts.Output, Err: err}
		}
	}
	if err := archive.Create(baseDir, opts.Output); err != nil {
		return issue.NewErrorContext().
			WithOperation("write merged package").
			WithResource(opts.Output).
			WithSuggestion("Check that the destination is writable").
			Wrap(err).
			BuildError()
	}
	logger.Info("wrote merged package", "output", opts.Output)
	return nil
}

// openBase loads the base package's presentation document, its
// presentation-level relationships, and its content-type manifest.
func openBase(root string) (*basePackage, error) {
	pres, err := loadPresentation(filepath.Join(root, contentRoot, "presentation.xml"))
	if err != nil {
		return nil, err
	}
	pres.ensureSlideList()

	rels, err := opc.LoadRelationships(filepath.Join(root, contentRoot, "_rels", "presentation.xml.rels"))
	if err != nil {
		return nil, err
	}

	types, err := opc.LoadContentTypes(filepath.Join(root, opc.ContentTypesName))
	if err != nil {
		return nil, err
	}

	return &basePackage{
		root:       root,
		pres:       pres,
		rels:       rels,
		types:      types,
		maxSlideID: pres.maxSlideID(),
	}, nil
}

// mergeFrom appends every slide of the extracted source package at srcDir to
// the base, in the source's own display order, copying each slide's
// transitive dependencies under a name map scoped to this one source
// package. Returns the number of slides appended.
func (b *basePackage) mergeFrom(srcDir string, logger *log.Logger) (int, error) {
	srcPres, err := loadPresentation(filepath.Join(srcDir, contentRoot, "presentation.xml"))
	if err != nil {
		return 0, err
	}
	if !srcPres.hasSlideList() {
		// An empty deck contributes nothing; not an error.
		logger.Debug("source package has no slide list, skipping", "dir", srcDir)
		return 0, nil
	}

	srcRels, err := opc.LoadRelationships(filepath.Join(srcDir, contentRoot, "_rels", "presentation.xml.rels"))
	if err != nil {
		return 0, err
	}
	slideTargets := srcRels.TargetsByType(opc.SlideRelType)

	srcTypes, err := opc.LoadContentTypes(filepath.Join(srcDir, opc.ContentTypesName))
	if err != nil {
		return 0, err
	}

	c := newCopier(
		filepath.Join(srcDir, contentRoot),
		filepath.Join(b.root, contentRoot),
		srcTypes,
		b.types,
		logger,
	)

	added := 0
	for _, rid := range srcPres.slideRelIDs() {
		target := slideTargets[rid]
		if target == "" {
			continue
		}

		// Normalize an absolute "/ppt/…" target to a content-root-relative
		// path.
		partRel := target
		if strings.HasPrefix(partRel, "/"+contentRoot+"/") {
			partRel = partRel[len("/"+contentRoot+"/"):]
		}

		dstRel, err := c.copyPart(partRel)
		if err != nil {
			return added, err
		}

		newRID := b.rels.Add(opc.SlideRelType, dstRel)
		b.maxSlideID++
		b.pres.appendSlide(b.maxSlideID, newRID)
		b.types.RegisterOverride(packagePath(dstRel), opc.KindSlide.ContentType())
		b.types.MergeDefaults(srcTypes)
		added++
	}
	return added, nil
}

// persist writes the mutated manifest parts back into the working tree.
func (b *basePackage) persist() error {
	if err := b.pres.save(); err != nil {
		return err
	}
	if err := b.rels.Save(); err != nil {
		return err
	}
	return b.types.Save()
}
