// Package trayicon holds the solid-color tray icons used as the dictation
// indicator.
package trayicon

import (
	_ "embed"

	"go.aimuz.me/whispertype/internal/types"
)

// Size is the icon edge length in pixels.
const Size = 64

var (
	//go:embed icons/red.png
	redIcon []byte
	//go:embed icons/green.png
	greenIcon []byte
	//go:embed icons/blue.png
	blueIcon []byte
)

// For returns the PNG icon for c. Unknown colors render red.
func For(c types.Color) []byte {
	switch c {
	case types.ColorGreen:
		return greenIcon
	case types.ColorBlue:
		return blueIcon
	default:
		return redIcon
	}
}
