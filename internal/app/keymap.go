package app

// Key binding constants used in handleKey.
const (
	KeyQuit       = "q"
	KeyQuitUpper  = "Q"
	KeyCtrlC      = "ctrl+c"
	KeySpace      = " "
	KeyLeft       = "left"
	KeyRight      = "right"
	KeyShiftLeft  = "shift+left"
	KeyShiftRight = "shift+right"
	KeyStart      = "["
	KeyEnd        = "]"
	KeyWindow     = "w"
	KeyEnter      = "enter"
)

// Nudge steps in seconds for arrow keys.
const (
	nudgeStep      = 1.0
	nudgeStepLarge = 10.0
)
