// SPDX-License-Identifier: MPL-2.0

package merge

import (
	"strconv"

	"github.com/beevik/etree"

	"deckmerge/pkg/opc"
)

// slideIDFloor is the format's reserved lower bound for slide ids; ids in
// the merged deck strictly increase from the highest existing id, never
// dipping below this floor.
const slideIDFloor = 256

// presentation wraps a presentation.xml document and its slide-id list. The
// list node may be absent in a slide-less deck; ensureSlideList creates it
// on demand for the base package.
type presentation struct {
	doc      *etree.Document
	path     string
	sldIdLst *etree.Element
}

func loadPresentation(path string) (*presentation, error) {
	doc, err := opc.LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return &presentation{
		doc:      doc,
		path:     path,
		sldIdLst: doc.Root().SelectElement("p:sldIdLst"),
	}, nil
}

// hasSlideList reports whether the deck declares a slide list at all. A
// source package without one contributes nothing and is skipped.
func (p *presentation) hasSlideList() bool {
	return p.sldIdLst != nil
}

// ensureSlideList creates the slide-id list node when missing.
func (p *presentation) ensureSlideList() {
	if p.sldIdLst == nil {
		p.sldIdLst = p.doc.Root().CreateElement("p:sldIdLst")
	}
}

// slideRelIDs returns the relationship id of every slide entry in stored
// (display) order. Display order follows the list, not the numeric ids,
// which may be non-monotonic in a hand-edited deck.
func (p *presentation) slideRelIDs() []string {
	if p.sldIdLst == nil {
		return nil
	}
	var ids []string
	for _, el := range p.sldIdLst.SelectElements("p:sldId") {
		if rid := el.SelectAttrValue("r:id", ""); rid != "" {
			ids = append(ids, rid)
		}
	}
	return ids
}

// maxSlideID returns the highest numeric slide id in the list, floored at
// the format's reserved range.
func (p *presentation) maxSlideID() int {
	mx := slideIDFloor
	if p.sldIdLst == nil {
		return mx
	}
	for _, el := range p.sldIdLst.SelectElements("p:sldId") {
		if n, err := strconv.Atoi(el.SelectAttrValue("id", "")); err == nil && n > mx {
			mx = n
		}
	}
	return mx
}

// appendSlide adds a slide entry binding the numeric id to a relationship id
// at the end of the display order. ensureSlideList must have been called.
func (p *presentation) appendSlide(id int, relID string) {
	el := p.sldIdLst.CreateElement("p:sldId")
	el.CreateAttr("id", strconv.Itoa(id))
	el.CreateAttr("r:id", relID)
}

func (p *presentation) save() error {
	return opc.SaveDocument(p.doc, p.path)
}
