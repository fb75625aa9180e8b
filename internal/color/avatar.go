// Package color derives stable placeholder colors for avatars.
package color

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

const (
	avatarSaturation = 0.45
	avatarLightness  = 0.62
)

// ForKey returns a "#RRGGBB" color picked from key. The same key always yields the
// same color, and every color shares one saturation and lightness so initials on top
// stay readable.
func ForKey(key string) string {
	hue := float64(xxhash.Sum64String("avatar:"+key) % 360)
	r, g, b := hslToRGB(hue, avatarSaturation, avatarLightness)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// hslToRGB converts hue in degrees and saturation/lightness in [0, 1].
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	c := (1 - math.Abs(2*l-1)) * s
	hp := math.Mod(h, 360) / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r1, g1, b1 float64
	switch {
	case hp < 1:
		r1, g1 = c, x
	case hp < 2:
		r1, g1 = x, c
	case hp < 3:
		g1, b1 = c, x
	case hp < 4:
		g1, b1 = x, c
	case hp < 5:
		r1, b1 = x, c
	default:
		r1, b1 = c, x
	}

	m := l - c/2
	return channel(r1 + m), channel(g1 + m), channel(b1 + m)
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), 1) * 255))
}
