package render

import "image/color"

// fillBinaryRGBA converts binary cell data (0/1) into RGBA pixels in buf.
func fillBinaryRGBA(buf []byte, cells []uint8, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i, c := range cells {
		base := i * 4
		if c != 0 {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	}
}

// fillBandRGBA colours live cells by the band that owns their row, cycling
// through palette, so the partition is visible. Dead cells use off. An empty
// palette falls back to white.
func fillBandRGBA(buf []byte, cells []uint8, width, bandHeight int, palette []color.RGBA, off color.RGBA) {
	if len(palette) == 0 {
		palette = []color.RGBA{{R: 255, G: 255, B: 255, A: 255}}
	}
	if bandHeight <= 0 {
		bandHeight = 1
	}
	for i, c := range cells {
		col := off
		if c != 0 {
			band := (i / width) / bandHeight
			col = palette[band%len(palette)]
		}
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// BandPalette is the default cycle of live-cell colours per band.
var BandPalette = []color.RGBA{
	{R: 240, G: 240, B: 240, A: 255},
	{R: 120, G: 200, B: 255, A: 255},
	{R: 255, G: 190, B: 90, A: 255},
	{R: 150, G: 235, B: 140, A: 255},
}
