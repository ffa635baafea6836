// Package tui implements the interactive discovery screen.
//
// The screen runs one discovery session per scan and shows controllers
// as they resolve, rather than waiting for the window to elapse. Keys:
// 'r' rescans, 'q' quits. The records visible when the user quits are
// returned to the caller.
package tui
