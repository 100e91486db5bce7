package app

import (
	"golang.org/x/mobile/event/key"
	"seehuhn.de/go/geom/vec"
)

const (
	actionCommit    = "commit"
	actionCancel    = "cancel"
	actionCopy      = "copy"
	actionZoomIn    = "zoomin"
	actionZoomOut   = "zoomout"
	actionZoomReset = "zoomreset"
	actionPanLeft   = "panleft"
	actionPanRight  = "panright"
	actionPanUp     = "panup"
	actionPanDown   = "pandown"
)

// nudge is how far the arrow keys pan, in canvas pixels.
const nudge = 10

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

var keyboardAction = map[KeyShortcut]string{
	{Code: key.CodeReturnEnter}:            actionCommit,
	{Code: key.CodeKeypadEnter}:            actionCommit,
	{Code: key.CodeEscape}:                 actionCancel,
	{Rune: 'q'}:                            actionCancel,
	{Rune: 'c', Modifiers: key.ModControl}: actionCopy,
	{Rune: 'c', Modifiers: key.ModMeta}:    actionCopy,
	{Rune: '+'}:                            actionZoomIn,
	{Rune: '='}:                            actionZoomIn,
	{Code: key.CodeKeypadPlusSign}:         actionZoomIn,
	{Rune: '-'}:                            actionZoomOut,
	{Code: key.CodeKeypadHyphenMinus}:      actionZoomOut,
	{Rune: '0'}:                            actionZoomReset,
	{Code: key.CodeLeftArrow}:              actionPanLeft,
	{Code: key.CodeRightArrow}:             actionPanRight,
	{Code: key.CodeUpArrow}:                actionPanUp,
	{Code: key.CodeDownArrow}:              actionPanDown,
}

// actionForKey resolves a key press. Shift is ignored and runes are tried
// before codes so '+' zooms whichever physical key produces it.
func actionForKey(e key.Event) (string, bool) {
	if e.Direction != key.DirPress && e.Direction != key.DirNone {
		return "", false
	}
	mods := e.Modifiers &^ key.ModShift
	if e.Rune > 0 {
		r := e.Rune
		if mods&key.ModControl != 0 && r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if a, ok := keyboardAction[KeyShortcut{Rune: r, Modifiers: mods}]; ok {
			return a, true
		}
	}
	a, ok := keyboardAction[KeyShortcut{Code: e.Code, Modifiers: mods}]
	return a, ok
}

// panDelta is the canvas-space drag that an arrow key stands for. Dragging
// the image right brings its left side into view.
func panDelta(action string) (vec.Vec2, bool) {
	switch action {
	case actionPanLeft:
		return vec.Vec2{X: nudge}, true
	case actionPanRight:
		return vec.Vec2{X: -nudge}, true
	case actionPanUp:
		return vec.Vec2{Y: nudge}, true
	case actionPanDown:
		return vec.Vec2{Y: -nudge}, true
	}
	return vec.Vec2{}, false
}
