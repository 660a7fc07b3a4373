// SPDX-License-Identifier: MPL-2.0

// Package merge implements the presentation package merge engine: given an
// ordered list of .pptx inputs it produces one package containing the slides
// of all inputs, in input order, with every layout, master, theme, chart,
// notes slide, and media asset carried over under fresh, collision-free
// names.
//
// The first input is the base package and is mutated in place in a scratch
// working tree; each further input contributes its slides through a
// recursive dependency copy that rewrites relationship targets as it goes.
// The whole merge is single-threaded: the name allocator's scan-then-create
// pattern and the per-input copy memo are only correct without concurrent
// writers.
package merge
