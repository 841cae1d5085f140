package model

// Centralized icons for the tree listing.
// Single-width characters so columns line up in every terminal.
const (
	IconFolderOpen   = "▾"
	IconFolderClosed = "▸"
	IconHist1D       = "▁"
	IconHist2D       = "▦"
	IconBranch       = "┆"
	IconText         = "¶"
	IconUnknown      = "?"
)

// Version is the release version, set at build time.
var Version = "0.3.0"

// IconFor picks the icon for an object. Containers use the open/closed
// folder icon depending on expanded.
func IconFor(obj Object, expanded bool) string {
	switch o := obj.(type) {
	case Container:
		if expanded {
			return IconFolderOpen
		}
		return IconFolderClosed
	case Plottable:
		if o.Kind() == KindHist2D {
			return IconHist2D
		}
		return IconHist1D
	case *Branch:
		return IconBranch
	case *Text:
		return IconText
	default:
		return IconUnknown
	}
}

// KindName is the short type label shown next to a tree entry.
func KindName(obj Object) string {
	switch o := obj.(type) {
	case Container:
		return "dir"
	case Plottable:
		return o.Kind().String()
	case *Branch:
		return "branch"
	case *Text:
		return "text"
	default:
		return "unknown"
	}
}
