// SPDX-License-Identifier: EPL-2.0

package opc

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
)

// xmlDeclaration is the declaration written on every saved part. OOXML
// packages ship with standalone="yes" and re-serialization keeps it stable.
const xmlDeclaration = `version="1.0" encoding="UTF-8" standalone="yes"`

// ParseError reports a malformed XML part. Repairing broken markup is out of
// scope; callers decide whether a bad part aborts the whole operation.
type ParseError struct {
	// Path is the on-disk location of the part that failed to parse.
	Path string
	// Err is the underlying parser error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse XML part %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying parser error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadDocument parses an XML part into an editable document tree.
// Returns a *ParseError when the file exists but is not well-formed XML.
func LoadDocument(path string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	if doc.Root() == nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("document has no root element")}
	}
	return doc, nil
}

// SaveDocument serializes a document with a stable XML declaration, creating
// parent directories as needed — the destination package may contain folders
// the base package never had.
func SaveDocument(doc *etree.Document, path string) error {
	ensureDeclaration(doc)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create part directory: %w", err)
	}
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("failed to write XML part %s: %w", path, err)
	}
	return nil
}

// ensureDeclaration pins the document's XML declaration to the canonical
// form, adding one at the front if the source document had none.
func ensureDeclaration(doc *etree.Document) {
	for _, tok := range doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml" {
			pi.Inst = xmlDeclaration
			return
		}
	}
	pi := doc.CreateProcInst("xml", xmlDeclaration)
	doc.RemoveChild(pi)
	doc.InsertChildAt(0, pi)
}
