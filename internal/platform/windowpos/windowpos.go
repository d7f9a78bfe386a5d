// Package windowpos persists the native position of the showcase window on
// platforms where fyne does not expose it.
package windowpos

// Placement is the top-left corner of a window in screen coordinates.
type Placement struct {
	X, Y int
}
