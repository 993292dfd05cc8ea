//go:build windows
// +build windows

package logging

import "golang.org/x/sys/windows"

// enableColors enables ANSI virtual terminal processing so the colored
// output renders correctly in the Windows console.
func enableColors() {
	handle := windows.Handle(windows.STD_OUTPUT_HANDLE)
	var mode uint32
	err := windows.GetConsoleMode(handle, &mode)
	if err == nil {
		mode |= windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING
		_ = windows.SetConsoleMode(handle, mode)
	}
}
