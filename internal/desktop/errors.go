package desktop

import "errors"

var (
	// ErrUnknownWindow is returned for a handle the registry does not hold.
	ErrUnknownWindow = errors.New("unknown window")
	// ErrNoSelection is returned by Apply before any image was selected.
	ErrNoSelection = errors.New("no wallpaper selected")
	// ErrUnsupportedImage is returned when an image cannot be decoded.
	ErrUnsupportedImage = errors.New("unsupported image")
)
