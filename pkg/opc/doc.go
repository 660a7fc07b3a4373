// SPDX-License-Identifier: EPL-2.0

// Package opc models the Open Packaging Conventions layer of an OOXML
// presentation package: part naming, the [Content_Types].xml manifest,
// and the _rels relationship parts that wire parts together.
//
// A package is an unpacked directory tree. Parts are addressed by paths
// relative to the package content root (e.g. "slides/slide3.xml"), always
// with forward slashes. The package content root for presentations is the
// "ppt" directory next to [Content_Types].xml.
//
// The types here hold live etree documents so that edits preserve the
// original markup of everything they do not touch — foreign namespaces,
// attribute order, and vendor extensions survive a load/save roundtrip.
package opc
