// SPDX-License-Identifier: EPL-2.0

package opc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDocumentParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.xml")
	if err := os.WriteFile(path, []byte("<open><unclosed>"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadDocument(path)
	if err == nil {
		t.Fatal("expected error for malformed XML")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type %T, want *ParseError", err)
	}
	if pe.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", pe.Path, path)
	}
}

func TestLoadDocumentMissingFile(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "nope.xml"))
	if !os.IsNotExist(err) {
		t.Errorf("missing file should surface as not-exist, got %v", err)
	}
}

func TestSaveDocumentCreatesParents(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "part.xml")
	if err := os.WriteFile(src, []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><root><child a="1"/></root>`), 0644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadDocument(src)
	if err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(dir, "nested", "deep", "part.xml")
	if err := SaveDocument(doc, dest); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}

	raw, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`) {
		t.Errorf("declaration missing or unstable: %q", string(raw))
	}
	if !strings.Contains(string(raw), `<child a="1"/>`) {
		t.Errorf("content lost: %q", string(raw))
	}
}

func TestSaveDocumentAddsDeclarationWhenMissing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bare.xml")
	if err := os.WriteFile(src, []byte(`<root/>`), 0644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadDocument(src)
	if err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(dir, "out.xml")
	if err := SaveDocument(doc, dest); err != nil {
		t.Fatal(err)
	}
	raw, _ := os.ReadFile(dest)
	if !strings.HasPrefix(string(raw), `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`) {
		t.Errorf("declaration not added: %q", string(raw))
	}
}
