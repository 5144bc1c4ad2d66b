package trim

import "errors"

var (
	// ErrDragActive is returned when a drag is requested while another
	// session on the same controller is still open.
	ErrDragActive = errors.New("drag session already active")

	// ErrInvalidMode is returned for a drag request that is not one of the
	// three drag modes.
	ErrInvalidMode = errors.New("invalid drag mode")

	// ErrHandlePriority is returned when a range drag is requested on a
	// press that landed on a handle. Handles always win.
	ErrHandlePriority = errors.New("press is on a handle")

	// ErrDurationUnknown is returned before the host has reported metadata.
	ErrDurationUnknown = errors.New("media duration not known")

	// ErrNoTarget is returned when a press hits neither a handle nor the
	// selected range.
	ErrNoTarget = errors.New("press outside trim range")
)
