// SPDX-License-Identifier: EPL-2.0

package opc

import (
	"fmt"
	"path"
	"regexp"
	"strconv"

	"github.com/beevik/etree"
)

// Relationship type URIs used by the presentation manifest.
const (
	// SlideRelType marks a presentation-level relationship pointing at a
	// slide part.
	SlideRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
)

// ExternalMode is the TargetMode attribute value of relationships whose
// target is an external resource (URL); such targets are never rewritten.
const ExternalMode = "External"

// relIDPattern matches the conventional rIdN identifier form.
var relIDPattern = regexp.MustCompile(`^rId(\d+)$`)

// Relationships is one part's (or the package root's) relationship set,
// backed by the live document of its .rels part. Identifiers are scoped to
// this one set; targets are either internal relative paths or external URLs.
type Relationships struct {
	doc  *etree.Document
	path string
}

// Relationship is a live view over one edge in a relationship set. Mutations
// write through to the owning document.
type Relationship struct {
	el *etree.Element
}

// ID returns the locally-scoped relationship identifier.
func (r Relationship) ID() string { return r.el.SelectAttrValue("Id", "") }

// Type returns the relationship type URI.
func (r Relationship) Type() string { return r.el.SelectAttrValue("Type", "") }

// Target returns the raw target reference.
func (r Relationship) Target() string { return r.el.SelectAttrValue("Target", "") }

// SetTarget rewrites the target reference.
func (r Relationship) SetTarget(target string) { r.el.CreateAttr("Target", target) }

// External reports whether the target is an external resource.
func (r Relationship) External() bool {
	return r.el.SelectAttrValue("TargetMode", "") == ExternalMode
}

// LoadRelationships reads a .rels part from disk.
func LoadRelationships(path string) (*Relationships, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return &Relationships{doc: doc, path: path}, nil
}

// Items returns live views over every relationship in the set, in document
// order.
func (rs *Relationships) Items() []Relationship {
	els := rs.doc.Root().SelectElements("Relationship")
	items := make([]Relationship, 0, len(els))
	for _, el := range els {
		items = append(items, Relationship{el: el})
	}
	return items
}

// NextID returns the next free identifier in the conventional rIdN form,
// scanning the set for the highest numeric suffix. Identifiers not matching
// the convention are ignored.
func (rs *Relationships) NextID() string {
	mx := 0
	for _, rel := range rs.Items() {
		if m := relIDPattern.FindStringSubmatch(rel.ID()); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > mx {
				mx = n
			}
		}
	}
	return fmt.Sprintf("rId%d", mx+1)
}

// Add appends a relationship with a freshly allocated identifier and returns
// that identifier.
func (rs *Relationships) Add(relType, target string) string {
	id := rs.NextID()
	el := rs.doc.Root().CreateElement("Relationship")
	el.CreateAttr("Id", id)
	el.CreateAttr("Type", relType)
	el.CreateAttr("Target", target)
	return id
}

// TargetsByType builds an id → target map restricted to relationships of the
// given type URI.
func (rs *Relationships) TargetsByType(relType string) map[string]string {
	targets := make(map[string]string)
	for _, rel := range rs.Items() {
		if rel.Type() == relType {
			targets[rel.ID()] = rel.Target()
		}
	}
	return targets
}

// Save persists the set back to the path it was loaded from.
func (rs *Relationships) Save() error {
	return SaveDocument(rs.doc, rs.path)
}

// RelsPath returns the location of a part's relationship sibling:
// dir/_rels/name.rels for a part at dir/name.
func RelsPath(partPath string) string {
	return path.Join(path.Dir(partPath), "_rels", path.Base(partPath)+".rels")
}
