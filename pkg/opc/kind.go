// SPDX-License-Identifier: EPL-2.0

package opc

// Kind classifies a part by the package folder it lives in. The folder name
// is the single source of truth for both the naming convention and the
// content type registered for a copied part.
type Kind int

const (
	// KindOther covers media, embeddings, and any folder without a fixed
	// naming convention. Parts of this kind keep their original filename
	// when possible and receive no content-type override (extension
	// defaults cover them instead).
	KindOther Kind = iota
	KindSlide
	KindSlideLayout
	KindSlideMaster
	KindChart
	KindTheme
	KindNotesSlide
	KindHandoutMaster
	KindNotesMaster
)

// kindSpec describes one known part folder: the filename prefix used for
// sequential numbering (empty when the kind is not numbered) and the content
// type registered as an override for copied parts.
type kindSpec struct {
	folder      string
	prefix      string
	contentType string
}

// kindTable is the fixed table of known OOXML presentation part kinds.
// Handout and notes masters carry a content-type override but no numbering
// convention; they fall back to keep-name/uniquify allocation.
var kindTable = map[Kind]kindSpec{
	KindSlide: {
		folder:      "slides",
		prefix:      "slide",
		contentType: "application/vnd.openxmlformats-officedocument.presentationml.slide+xml",
	},
	KindSlideLayout: {
		folder:      "slideLayouts",
		prefix:      "slideLayout",
		contentType: "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml",
	},
	KindSlideMaster: {
		folder:      "slideMasters",
		prefix:      "slideMaster",
		contentType: "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml",
	},
	KindChart: {
		folder:      "charts",
		prefix:      "chart",
		contentType: "application/vnd.openxmlformats-officedocument.drawingml.chart+xml",
	},
	KindTheme: {
		folder:      "theme",
		prefix:      "theme",
		contentType: "application/vnd.openxmlformats-officedocument.theme+xml",
	},
	KindNotesSlide: {
		folder:      "notesSlides",
		prefix:      "notesSlide",
		contentType: "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml",
	},
	KindHandoutMaster: {
		folder:      "handoutMasters",
		contentType: "application/vnd.openxmlformats-officedocument.presentationml.handoutMaster+xml",
	},
	KindNotesMaster: {
		folder:      "notesMasters",
		contentType: "application/vnd.openxmlformats-officedocument.presentationml.notesMaster+xml",
	},
}

// folderToKind is derived from kindTable for folder-name lookup.
var folderToKind = func() map[string]Kind {
	m := make(map[string]Kind, len(kindTable))
	for k, spec := range kindTable {
		m[spec.folder] = k
	}
	return m
}()

// ClassifyFolder returns the Kind for a package folder name (the path of a
// part's parent directory relative to the content root, e.g. "slides" or
// "embeddings"). Unknown folders classify as KindOther.
func ClassifyFolder(folder string) Kind {
	if k, ok := folderToKind[folder]; ok {
		return k
	}
	return KindOther
}

// Folder returns the package folder name for a known kind, or "" for KindOther.
func (k Kind) Folder() string {
	return kindTable[k].folder
}

// Numbered reports whether the kind uses the sequential prefixN.xml naming
// convention.
func (k Kind) Numbered() bool {
	return kindTable[k].prefix != ""
}

// Prefix returns the filename prefix for numbered kinds ("slide",
// "slideLayout", ...), or "" when the kind is not numbered.
func (k Kind) Prefix() string {
	return kindTable[k].prefix
}

// ContentType returns the MIME type registered as a content-type override
// for parts of this kind, or "" for KindOther.
func (k Kind) ContentType() string {
	return kindTable[k].contentType
}

// String returns the folder name for known kinds, "other" otherwise.
func (k Kind) String() string {
	if spec, ok := kindTable[k]; ok {
		return spec.folder
	}
	return "other"
}
