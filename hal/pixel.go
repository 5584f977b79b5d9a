package hal

import "inkdo/internal/epd"

// decodeOct4 expands packed 4-bit palette pixels into RGBA8888.
func decodeOct4(dst []byte, src []byte) {
	for i, b := range src {
		j := i * 8
		if j+7 >= len(dst) {
			return
		}
		putRGBA(dst[j:j+4], epd.Color(b>>4))
		putRGBA(dst[j+4:j+8], epd.Color(b&0x0F))
	}
}

func putRGBA(dst []byte, c epd.Color) {
	rgba := c.RGBA()
	dst[0] = rgba.R
	dst[1] = rgba.G
	dst[2] = rgba.B
	dst[3] = 0xFF
}
