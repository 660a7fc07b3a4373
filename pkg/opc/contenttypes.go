// SPDX-License-Identifier: EPL-2.0

package opc

import (
	"github.com/beevik/etree"
)

// ContentTypesName is the manifest's fixed location at the package root.
const ContentTypesName = "[Content_Types].xml"

// ContentTypes is the package-global manifest mapping part names to content
// types. Defaults map a file extension to a type; overrides pin an exact
// part name to a type.
type ContentTypes struct {
	doc  *etree.Document
	path string
}

// LoadContentTypes reads a [Content_Types].xml manifest from disk.
func LoadContentTypes(path string) (*ContentTypes, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return &ContentTypes{doc: doc, path: path}, nil
}

// RegisterOverride adds an override entry for the exact part name unless one
// already exists — idempotent. partName is package-absolute ("/ppt/slides/
// slide7.xml"). Reports whether a new entry was added.
func (ct *ContentTypes) RegisterOverride(partName, contentType string) bool {
	root := ct.doc.Root()
	for _, el := range root.SelectElements("Override") {
		if el.SelectAttrValue("PartName", "") == partName {
			return false
		}
	}
	el := root.CreateElement("Override")
	el.CreateAttr("PartName", partName)
	el.CreateAttr("ContentType", contentType)
	return true
}

// HasOverride reports whether an override entry exists for the part name.
func (ct *ContentTypes) HasOverride(partName string) bool {
	for _, el := range ct.doc.Root().SelectElements("Override") {
		if el.SelectAttrValue("PartName", "") == partName {
			return true
		}
	}
	return false
}

// DefaultFor returns the default content type registered for a file
// extension (without the dot).
func (ct *ContentTypes) DefaultFor(ext string) (string, bool) {
	for _, el := range ct.doc.Root().SelectElements("Default") {
		if el.SelectAttrValue("Extension", "") == ext {
			return el.SelectAttrValue("ContentType", ""), true
		}
	}
	return "", false
}

// MergeDefaults adds every default (extension, type) pair from src not
// already present, by exact pair match. An existing extension mapped to a
// different type is never overwritten — first writer wins, so previously
// registered parts keep their interpretation. Returns the number of entries
// added.
func (ct *ContentTypes) MergeDefaults(src *ContentTypes) int {
	type pair struct{ ext, typ string }

	have := make(map[pair]bool)
	droot := ct.doc.Root()
	for _, el := range droot.SelectElements("Default") {
		have[pair{el.SelectAttrValue("Extension", ""), el.SelectAttrValue("ContentType", "")}] = true
	}

	added := 0
	for _, el := range src.doc.Root().SelectElements("Default") {
		p := pair{el.SelectAttrValue("Extension", ""), el.SelectAttrValue("ContentType", "")}
		if have[p] {
			continue
		}
		if _, exists := ct.DefaultFor(p.ext); exists {
			continue
		}
		n := droot.CreateElement("Default")
		n.CreateAttr("Extension", p.ext)
		n.CreateAttr("ContentType", p.typ)
		have[p] = true
		added++
	}
	return added
}

// Save persists the manifest back to the path it was loaded from.
func (ct *ContentTypes) Save() error {
	return SaveDocument(ct.doc, ct.path)
}
