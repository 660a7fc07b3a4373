// SPDX-License-Identifier: EPL-2.0

// Package decktest builds synthetic presentation packages for tests. The
// generated decks are structurally faithful: every slide references a layout,
// the layout references a master, the master references both the theme and
// its layouts (the usual back-reference cycle), and optional chart, media,
// and notes parts hang off the first slide.
//
// This package is separate from testutil so that engine tests can build
// fixtures without pulling the whole engine into testutil's import graph.
package decktest

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"deckmerge/internal/archive"
	"deckmerge/internal/testutil"
)

// Deck describes a synthetic presentation package.
type Deck struct {
	// Slides is the number of slides; each references the shared layout.
	Slides int
	// WithChart attaches a chart with an embedded workbook to slide 1.
	WithChart bool
	// WithImage attaches media/image1.png to slide 1.
	WithImage bool
	// WithNotes attaches a notes slide to slide 1, which references the
	// slide back (a relationship cycle).
	WithNotes bool
	// NoSlideList omits the slide-id list node entirely (an empty deck).
	NoSlideList bool
	// DanglingLayout makes slide 1 reference a layout file that does not
	// exist on disk.
	DanglingLayout bool
}

const (
	relsNS   = "http://schemas.openxmlformats.org/package/2006/relationships"
	presNS   = "http://schemas.openxmlformats.org/presentationml/2006/main"
	offRelNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

func relType(suffix string) string { return offRelNS + "/" + suffix }

// WriteTree materializes the deck as an unpacked package tree under root.
func WriteTree(t testing.TB, root string, d Deck) {
	t.Helper()

	write := func(rel, content string) {
		testutil.MustWriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), []byte(content))
	}

	write("[Content_Types].xml", contentTypesXML(d))
	write("ppt/presentation.xml", presentationXML(d))
	write("ppt/_rels/presentation.xml.rels", presentationRelsXML(d))

	for i := 1; i <= d.Slides; i++ {
		write(fmt.Sprintf("ppt/slides/slide%d.xml", i),
			fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:sld xmlns:p=%q><p:cSld/></p:sld>`, presNS))
		write(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i), slideRelsXML(d, i))
	}

	if !d.DanglingLayout {
		write("ppt/slideLayouts/slideLayout1.xml",
			fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:sldLayout xmlns:p=%q/>`, presNS))
		write("ppt/slideLayouts/_rels/slideLayout1.xml.rels", relsXML(
			rel("rId1", relType("slideMaster"), "../slideMasters/slideMaster1.xml", false)))
	}

	write("ppt/slideMasters/slideMaster1.xml",
		fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:sldMaster xmlns:p=%q/>`, presNS))
	masterRels := []string{
		rel("rId1", relType("theme"), "../theme/theme1.xml", false),
	}
	if !d.DanglingLayout {
		masterRels = append(masterRels, rel("rId2", relType("slideLayout"), "../slideLayouts/slideLayout1.xml", false))
	}
	write("ppt/slideMasters/_rels/slideMaster1.xml.rels", relsXML(masterRels...))

	write("ppt/theme/theme1.xml",
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"/>`)

	if d.WithChart {
		write("ppt/charts/chart1.xml",
			`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart"/>`)
		write("ppt/charts/_rels/chart1.xml.rels", relsXML(
			rel("rId1", relType("package"), "../embeddings/Microsoft_Excel_Worksheet1.xlsx", false)))
		write("ppt/embeddings/Microsoft_Excel_Worksheet1.xlsx", "PK\x03\x04workbook-bytes")
	}

	if d.WithImage {
		write("ppt/media/image1.png", "\x89PNG\r\n\x1a\nimage-bytes")
	}

	if d.WithNotes {
		write("ppt/notesSlides/notesSlide1.xml",
			fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:notes xmlns:p=%q/>`, presNS))
		write("ppt/notesSlides/_rels/notesSlide1.xml.rels", relsXML(
			rel("rId1", relType("slide"), "../slides/slide1.xml", false)))
	}
}

// WriteArchive materializes the deck as a .pptx archive at path.
func WriteArchive(t testing.TB, path string, d Deck) {
	t.Helper()
	tree := t.TempDir()
	WriteTree(t, tree, d)
	if err := archive.Create(tree, path); err != nil {
		t.Fatalf("failed to create deck archive %s: %v", path, err)
	}
}

func contentTypesXML(d Deck) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	if d.WithImage {
		b.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	}
	if d.WithChart {
		b.WriteString(`<Default Extension="xlsx" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"/>`)
	}
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	for i := 1; i <= d.Slides; i++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	if d.WithChart {
		b.WriteString(`<Override PartName="/ppt/charts/chart1.xml" ContentType="application/vnd.openxmlformats-officedocument.drawingml.chart+xml"/>`)
	}
	if d.WithNotes {
		b.WriteString(`<Override PartName="/ppt/notesSlides/notesSlide1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"/>`)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func presentationXML(d Deck) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	fmt.Fprintf(&b, `<p:presentation xmlns:p=%q xmlns:r=%q>`, presNS, offRelNS)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	if !d.NoSlideList {
		b.WriteString(`<p:sldIdLst>`)
		for i := 1; i <= d.Slides; i++ {
			fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 255+i, i+1)
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRelsXML(d Deck) string {
	rels := []string{rel("rId1", relType("slideMaster"), "slideMasters/slideMaster1.xml", false)}
	for i := 1; i <= d.Slides; i++ {
		rels = append(rels, rel(fmt.Sprintf("rId%d", i+1), relType("slide"), fmt.Sprintf("slides/slide%d.xml", i), false))
	}
	return relsXML(rels...)
}

func slideRelsXML(d Deck, slide int) string {
	rels := []string{rel("rId1", relType("slideLayout"), "../slideLayouts/slideLayout1.xml", false)}
	next := 2
	if slide == 1 && d.WithChart {
		rels = append(rels, rel(fmt.Sprintf("rId%d", next), relType("chart"), "../charts/chart1.xml", false))
		next++
	}
	if slide == 1 && d.WithImage {
		rels = append(rels, rel(fmt.Sprintf("rId%d", next), relType("image"), "../media/image1.png", false))
		next++
	}
	if slide == 1 && d.WithNotes {
		rels = append(rels, rel(fmt.Sprintf("rId%d", next), relType("notesSlide"), "../notesSlides/notesSlide1.xml", false))
		next++
	}
	if slide == 1 {
		rels = append(rels, rel(fmt.Sprintf("rId%d", next), relType("hyperlink"), "https://example.com", true))
	}
	return relsXML(rels...)
}

func rel(id, typ, target string, external bool) string {
	if external {
		return fmt.Sprintf(`<Relationship Id=%q Type=%q Target=%q TargetMode="External"/>`, id, typ, target)
	}
	return fmt.Sprintf(`<Relationship Id=%q Type=%q Target=%q/>`, id, typ, target)
}

func relsXML(rels ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		fmt.Sprintf(`<Relationships xmlns=%q>`, relsNS) +
		strings.Join(rels, "") +
		`</Relationships>`
}
