//go:build !windows

package windowpos

import "fyne.io/fyne/v2"

// Get always fails off Windows.
func Get(fyne.Window) (Placement, bool) { return Placement{}, false }

// Apply is a no-op off Windows.
func Apply(fyne.Window, Placement) bool { return false }
