// SPDX-License-Identifier: MPL-2.0

package merge

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"deckmerge/internal/archive"
	"deckmerge/internal/testutil"
	"deckmerge/internal/testutil/decktest"
	"deckmerge/pkg/opc"
)

// mergeDecks builds one archive per deck, merges them in order, and returns
// the extracted output tree.
func mergeDecks(t *testing.T, decks ...decktest.Deck) string {
	t.Helper()
	dir := t.TempDir()

	inputs := make([]string, 0, len(decks))
	for i, d := range decks {
		p := filepath.Join(dir, "input"+strconv.Itoa(i)+".pptx")
		decktest.WriteArchive(t, p, d)
		inputs = append(inputs, p)
	}

	output := filepath.Join(dir, "merged.pptx")
	if err := Merge(Options{Inputs: inputs, Output: output}); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	outTree := filepath.Join(dir, "out")
	if err := archive.Extract(output, outTree); err != nil {
		t.Fatalf("extract merged output: %v", err)
	}
	return outTree
}

func outputSlideList(t *testing.T, outTree string) (*presentation, *opc.Relationships) {
	t.Helper()
	pres, err := loadPresentation(filepath.Join(outTree, "ppt", "presentation.xml"))
	if err != nil {
		t.Fatal(err)
	}
	rels, err := opc.LoadRelationships(filepath.Join(outTree, "ppt", "_rels", "presentation.xml.rels"))
	if err != nil {
		t.Fatal(err)
	}
	return pres, rels
}

func TestMergeSlideCountAndOrder(t *testing.T) {
	outTree := mergeDecks(t,
		decktest.Deck{Slides: 3, WithChart: true},
		decktest.Deck{Slides: 2})

	pres, rels := outputSlideList(t, outTree)
	slideTargets := rels.TargetsByType(opc.SlideRelType)

	relIDs := pres.slideRelIDs()
	if len(relIDs) != 5 {
		t.Fatalf("merged deck has %d slides, want 5", len(relIDs))
	}

	// Base slides keep their untouched paths, appended slides follow in
	// source order with fresh names.
	want := []string{
		"slides/slide1.xml",
		"slides/slide2.xml",
		"slides/slide3.xml",
		"slides/slide4.xml",
		"slides/slide5.xml",
	}
	for i, rid := range relIDs {
		if got := slideTargets[rid]; got != want[i] {
			t.Errorf("slide %d target = %q, want %q", i+1, got, want[i])
		}
	}

	// Every slide target exists in the output tree.
	for _, rid := range relIDs {
		p := filepath.Join(outTree, "ppt", filepath.FromSlash(slideTargets[rid]))
		if _, err := os.Stat(p); err != nil {
			t.Errorf("slide target missing on disk: %v", err)
		}
	}
}

func TestMergeSlideIDsStrictlyIncrease(t *testing.T) {
	outTree := mergeDecks(t,
		decktest.Deck{Slides: 2},
		decktest.Deck{Slides: 2},
		decktest.Deck{Slides: 1})

	pres, _ := outputSlideList(t, outTree)
	prev := 0
	for _, el := range pres.sldIdLst.SelectElements("p:sldId") {
		id, err := strconv.Atoi(el.SelectAttrValue("id", ""))
		if err != nil {
			t.Fatalf("non-numeric slide id: %v", err)
		}
		if id <= prev {
			t.Errorf("slide ids not strictly increasing: %d after %d", id, prev)
		}
		if id < slideIDFloor {
			t.Errorf("slide id %d below reserved floor", id)
		}
		prev = id
	}
}

func TestMergeSingleInput(t *testing.T) {
	outTree := mergeDecks(t, decktest.Deck{Slides: 2})

	pres, _ := outputSlideList(t, outTree)
	if got := len(pres.slideRelIDs()); got != 2 {
		t.Errorf("single-input merge has %d slides, want 2", got)
	}

	// Slide content passes through byte-for-byte; only manifests were
	// re-serialized.
	raw := testutil.MustReadFile(t, filepath.Join(outTree, "ppt", "slides", "slide1.xml"))
	if !strings.Contains(string(raw), "<p:cSld/>") {
		t.Errorf("slide content altered: %q", string(raw))
	}
}

func TestMergeEmptyDeckContributesNothing(t *testing.T) {
	outTree := mergeDecks(t,
		decktest.Deck{Slides: 2},
		decktest.Deck{NoSlideList: true})

	pres, _ := outputSlideList(t, outTree)
	if got := len(pres.slideRelIDs()); got != 2 {
		t.Errorf("merge with empty deck has %d slides, want 2", got)
	}
}

func TestMergeSameDeckTwiceNoCollisions(t *testing.T) {
	deck := decktest.Deck{Slides: 2, WithImage: true}
	outTree := mergeDecks(t, deck, deck)

	slides, err := os.ReadDir(filepath.Join(outTree, "ppt", "slides"))
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]bool)
	count := 0
	for _, e := range slides {
		if e.IsDir() {
			continue
		}
		if names[e.Name()] {
			t.Errorf("duplicate slide name %s", e.Name())
		}
		names[e.Name()] = true
		count++
	}
	if count != 4 {
		t.Errorf("slides folder has %d files, want 4", count)
	}

	// The second input's media keeps a uniquified name next to the base's.
	for _, name := range []string{"image1.png", "image1_1.png"} {
		if _, err := os.Stat(filepath.Join(outTree, "ppt", "media", name)); err != nil {
			t.Errorf("expected media file %s: %v", name, err)
		}
	}
}

func TestMergeFreshNameMapPerInput(t *testing.T) {
	// Three inputs all carrying media/image1.png: deduplication happens
	// within one input's pass, never across inputs.
	deck := decktest.Deck{Slides: 1, WithImage: true}
	outTree := mergeDecks(t, deck, deck, deck)

	media, err := os.ReadDir(filepath.Join(outTree, "ppt", "media"))
	if err != nil {
		t.Fatal(err)
	}
	if len(media) != 3 {
		t.Errorf("media folder has %d files, want 3 (one per input)", len(media))
	}
}

func TestMergeRelationshipIntegrity(t *testing.T) {
	outTree := mergeDecks(t,
		decktest.Deck{Slides: 2, WithChart: true, WithImage: true},
		decktest.Deck{Slides: 2, WithChart: true, WithNotes: true, WithImage: true})

	contentDir := filepath.Join(outTree, "ppt")
	err := filepath.WalkDir(contentDir, func(p string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(p, ".rels") {
			return nil
		}
		rels, err := opc.LoadRelationships(p)
		if err != nil {
			return err
		}
		// Owner folder relative to the content root (…/ppt/slides/_rels/x.rels → slides).
		relToContent, err := filepath.Rel(contentDir, filepath.Dir(filepath.Dir(p)))
		if err != nil {
			return err
		}
		ownerDir := filepath.ToSlash(relToContent)
		for _, rel := range rels.Items() {
			if rel.External() || !strings.HasPrefix(rel.Target(), "../") {
				continue
			}
			resolved := path.Join(ownerDir, rel.Target())
			for strings.HasPrefix(resolved, "../") {
				resolved = resolved[len("../"):]
			}
			if _, statErr := os.Stat(filepath.Join(contentDir, filepath.FromSlash(resolved))); statErr != nil {
				t.Errorf("broken internal target %q in %s", rel.Target(), p)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestMergeContentTypeCoverage(t *testing.T) {
	outTree := mergeDecks(t,
		decktest.Deck{Slides: 1, WithChart: true},
		decktest.Deck{Slides: 2, WithChart: true, WithNotes: true, WithImage: true})

	types, err := opc.LoadContentTypes(filepath.Join(outTree, opc.ContentTypesName))
	if err != nil {
		t.Fatal(err)
	}

	for _, folder := range []string{"slides", "slideLayouts", "slideMasters", "theme", "charts", "notesSlides"} {
		dir := filepath.Join(outTree, "ppt", folder)
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			partName := "/ppt/" + folder + "/" + e.Name()
			ext := strings.TrimPrefix(filepath.Ext(e.Name()), ".")
			if _, hasDefault := types.DefaultFor(ext); !types.HasOverride(partName) && !hasDefault {
				t.Errorf("no content type registered for %s", partName)
			}
		}
	}
}

func TestMergeZeroInputs(t *testing.T) {
	err := Merge(Options{Output: filepath.Join(t.TempDir(), "out.pptx")})
	var iie *InvalidInputError
	if !errors.As(err, &iie) {
		t.Fatalf("error type %T, want *InvalidInputError", err)
	}
}

func TestMergeCorruptBaseLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.pptx")
	testutil.MustWriteFile(t, garbage, []byte("definitely not a zip"))
	output := filepath.Join(dir, "merged.pptx")

	err := Merge(Options{Inputs: []string{garbage}, Output: output})
	if err == nil {
		t.Fatal("expected error for corrupt base input")
	}
	var re *archive.ReadError
	if !errors.As(err, &re) {
		t.Errorf("error chain missing *archive.ReadError: %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Error("partial output left behind")
	}
}
