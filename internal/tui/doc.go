// Package tui implements the Tempo terminal user interface.
//
// The stage hosts a timeline.Controller: it is the controller's content
// region, progress indicator and step selectors, and it forwards window
// size, terminal focus, mouse hover and key presses to the controller as
// signals on a timeline.Bus.
//
// Component architecture:
//
//	model.go     root model, message routing, Init/Update/View
//	stage.go     controller surfaces and progress interpolation
//	theme.go     centralized color + style definitions
//	header.go    top bar and footer hints
//	timeline.go  step selector row
//	detail.go    active step heading and paragraph
//	progress.go  animated progress bar
//	decklist.go  deck selector (initial screen)
//	helpers.go   truncation and integer helpers
package tui
