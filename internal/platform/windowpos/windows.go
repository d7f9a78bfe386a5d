//go:build windows

package windowpos

import (
	"syscall"
	"unsafe"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
)

var (
	user32        = syscall.NewLazyDLL("user32.dll")
	getWindowRect = user32.NewProc("GetWindowRect")
	setWindowPos  = user32.NewProc("SetWindowPos")
)

const keepSizeAndOrder = 0x0001 | 0x0004 | 0x0010 // SWP_NOSIZE | SWP_NOZORDER | SWP_NOACTIVATE

type rect struct{ left, top, right, bottom int32 }

// Get reads the window's top-left corner from its HWND.
func Get(w fyne.Window) (Placement, bool) {
	var p Placement
	ok := onHWND(w, func(hwnd uintptr) bool {
		var r rect
		if ret, _, err := getWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r))); ret == 0 {
			fyne.LogError("GetWindowRect failed", err)
			return false
		}
		p = Placement{X: int(r.left), Y: int(r.top)}
		return true
	})
	return p, ok
}

// Apply moves the window without resizing or raising it.
func Apply(w fyne.Window, p Placement) bool {
	return onHWND(w, func(hwnd uintptr) bool {
		ret, _, err := setWindowPos.Call(hwnd, 0, uintptr(int32(p.X)), uintptr(int32(p.Y)), 0, 0, keepSizeAndOrder)
		if ret == 0 {
			fyne.LogError("SetWindowPos failed", err)
			return false
		}
		return true
	})
}

// onHWND runs fn with the native handle on the GUI thread and waits for it.
func onHWND(w fyne.Window, fn func(hwnd uintptr) bool) bool {
	nw, ok := w.(driver.NativeWindow)
	if !ok {
		return false
	}
	done := make(chan bool, 1)
	nw.RunNative(func(ctx any) {
		wc, ok := ctx.(driver.WindowsWindowContext)
		if !ok || wc.HWND == 0 {
			done <- false
			return
		}
		done <- fn(wc.HWND)
	})
	return <-done
}
