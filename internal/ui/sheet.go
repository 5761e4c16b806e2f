// Package ui holds the presentation primitives shared by the page
// templates.
//
// A sheet is a panel that slides in from one edge of the viewport over a
// dimmed overlay. It is rendered as a native <dialog>: a trigger element
// carrying data-sheet-open="<id>" calls showModal(), anything inside the
// dialog carrying data-sheet-close calls close(), and so does Escape or a
// click on the backdrop. The dialog's data-state attribute ("open" or
// "closed") drives the enter and exit animations in static/css/sheet.css.
package ui

import (
	"fmt"
	"html/template"
	"strings"
)

// Side is the viewport edge a sheet is anchored to.
type Side string

const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// DefaultSide is used when no side is given.
const DefaultSide = SideRight

const (
	// sheetBase applies to every sheet regardless of side.
	sheetBase = "sheet"

	// OverlayClasses styles the dimmed backdrop behind an open sheet.
	OverlayClasses = "sheet-overlay"

	// CloseClasses styles the dismiss control in the sheet's corner.
	CloseClasses = "sheet-close"
)

var sideClasses = map[Side]string{
	SideTop:    "sheet--top",
	SideBottom: "sheet--bottom",
	SideLeft:   "sheet--left",
	SideRight:  "sheet--right",
}

// ParseSide converts s to a Side. The empty string yields DefaultSide.
func ParseSide(s string) (Side, error) {
	if s == "" {
		return DefaultSide, nil
	}
	side := Side(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := sideClasses[side]; !ok {
		return "", fmt.Errorf("ui: unknown sheet side %q", s)
	}
	return side, nil
}

// SheetClasses returns the class list for a sheet anchored to side,
// followed by any extra classes. An unknown side falls back to
// DefaultSide.
func SheetClasses(side Side, extra ...string) string {
	sideClass, ok := sideClasses[side]
	if !ok {
		sideClass = sideClasses[DefaultSide]
	}
	classes := append([]string{sheetBase, sideClass}, extra...)
	return joinClasses(classes...)
}

// joinClasses drops empty entries and duplicate classes, keeping the
// first occurrence.
func joinClasses(classes ...string) string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(classes))
	for _, c := range classes {
		for _, field := range strings.Fields(c) {
			if seen[field] {
				continue
			}
			seen[field] = true
			out = append(out, field)
		}
	}
	return strings.Join(out, " ")
}

// FuncMap exposes the sheet helpers to html/template:
//
//	<dialog id="nav" class="{{sheetClasses "left"}}" data-side="{{sheetSide "left"}}">
//
// An unknown side aborts template execution.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"sheetClasses": func(side string, extra ...string) (string, error) {
			s, err := ParseSide(side)
			if err != nil {
				return "", err
			}
			return SheetClasses(s, extra...), nil
		},
		"sheetSide": func(side string) (string, error) {
			s, err := ParseSide(side)
			return string(s), err
		},
		"sheetOverlayClasses": func() string { return OverlayClasses },
		"sheetCloseClasses":   func() string { return CloseClasses },
	}
}
