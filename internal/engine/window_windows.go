//go:build windows

package engine

import (
	"syscall"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	dwmapi                    = syscall.NewLazyDLL("dwmapi.dll")
	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
)

const (
	dwmwaUseImmersiveDarkMode = 20
	dwmwaCaptionColor         = 35
)

// MatchTitleBar paints the caption in the clear color so the globe's
// background runs up to the window edge.
func MatchTitleBar(window *glfw.Window, clear mgl32.Vec4) {
	hwnd := window.GetWin32Window()
	if hwnd == nil {
		return
	}

	var dark int32
	if isDark(clear) {
		dark = 1
	}
	setWindowAttribute(unsafe.Pointer(hwnd), dwmwaUseImmersiveDarkMode, unsafe.Pointer(&dark), unsafe.Sizeof(dark))

	caption := colorRef(clear)
	setWindowAttribute(unsafe.Pointer(hwnd), dwmwaCaptionColor, unsafe.Pointer(&caption), unsafe.Sizeof(caption))
}

func setWindowAttribute(hwnd unsafe.Pointer, attr uintptr, value unsafe.Pointer, size uintptr) {
	procDwmSetWindowAttribute.Call(uintptr(hwnd), attr, uintptr(value), size)
}
