package palvideo

import (
	"encoding/binary"
	"fmt"
)

// WidenRGB555 expands a 5/5/5 pixel to opaque 0xAARRGGBB. Each channel's top
// bits are duplicated into the freed low bits, so 0x1F maps to 0xFF.
func WidenRGB555(p uint16) uint32 {
	r := uint32((p&0x7C00)>>7 | (p&0x7C00)>>12)
	g := uint32((p&0x03E0)>>2 | (p&0x03E0)>>7)
	b := uint32((p&0x001F)<<3 | (p&0x001F)>>2)
	return 0xFF000000 | r<<16 | g<<8 | b
}

// ConvertRGB555 writes w*h opaque ARGB8888 pixels into dst from src, a
// tightly packed buffer of little-endian RGB555 pixels.
func ConvertRGB555(dst []byte, dstPitch int, src []byte, w, h int) {
	for row := 0; row < h; row++ {
		in := src[row*w*2:]
		out := dst[row*dstPitch:]
		for col := 0; col < w; col++ {
			p := binary.LittleEndian.Uint16(in[col*2:])
			binary.LittleEndian.PutUint32(out[col*4:], WidenRGB555(p))
		}
	}
}

// PaletteSize is the number of entries in every palette.
const PaletteSize = 256

// ExpandVideoPalette converts a movie palette holding 6-bit components into
// opaque ARGB words. Each entry occupies stride bytes (3 for RGB, 4 for RGBX);
// only the first three are read and each is shifted left by 2.
func ExpandVideoPalette(pal []byte, stride int) [PaletteSize]uint32 {
	var out [PaletteSize]uint32
	if stride < 3 {
		stride = 3
	}
	for i := 0; i < PaletteSize && i*stride+2 < len(pal); i++ {
		e := pal[i*stride:]
		r := uint32(e[0] << 2)
		g := uint32(e[1] << 2)
		b := uint32(e[2] << 2)
		out[i] = 0xFF000000 | r<<16 | g<<8 | b
	}
	return out
}

// ConvertPaletted writes w*h ARGB8888 pixels into dst by looking up each
// index byte of src in pal.
func ConvertPaletted(dst []byte, dstPitch int, src []byte, w, h int, pal *[PaletteSize]uint32) {
	for row := 0; row < h; row++ {
		in := src[row*w : row*w+w]
		out := dst[row*dstPitch:]
		for col, idx := range in {
			binary.LittleEndian.PutUint32(out[col*4:], pal[idx])
		}
	}
}

// YV12Chroma returns the pitch and row count of each chroma plane of a
// YV12 image with luma pitch pitch and height h. Odd sizes round up.
func YV12Chroma(pitch, h int) (cpitch, rows int) {
	return (pitch + 1) / 2, (h + 1) / 2
}

// YV12Size returns the byte size of a YV12 image with the given luma pitch.
func YV12Size(pitch, h int) int {
	cpitch, rows := YV12Chroma(pitch, h)
	return pitch*h + 2*cpitch*rows
}

// yv12Planes splits a locked YV12 buffer into its Y, V and U planes.
func yv12Planes(dst []byte, pitch, h int) (y, v, u []byte) {
	ySize := pitch * h
	cpitch, rows := YV12Chroma(pitch, h)
	cSize := cpitch * rows
	return dst[:ySize], dst[ySize : ySize+cSize], dst[ySize+cSize : ySize+2*cSize]
}

// CopyYUVPlanes copies a 4:2:0 frame into a locked YV12 buffer whose luma
// pitch is pitch. planes holds Y, U and V in that order; the destination
// stores Y, then V at pitch*h, then U after the V plane.
//
// When every source stride already matches the destination layout the
// planes are copied as three blocks; otherwise rows are copied one at a
// time honoring each stride. An odd height whose source lacks the final
// chroma row repeats the row above it; a single-row frame without chroma
// gets neutral chroma.
func CopyYUVPlanes(dst []byte, pitch int, planes [3][]byte, strides [3]int, w, h int) {
	cpitch, _ := YV12Chroma(pitch, h)
	if strides[0] == pitch && strides[1] == cpitch && strides[2] == cpitch {
		copyYUVContiguous(dst, pitch, planes, w, h)
		return
	}
	copyYUVRows(dst, pitch, planes, strides, w, h)
}

// checkYUVPlanes verifies every plane holds enough rows for a w x h frame.
func checkYUVPlanes(planes [3][]byte, strides [3]int, w, h int) error {
	need := [3]struct{ rows, width int }{
		{h, w},
		{h / 2, w / 2},
		{h / 2, w / 2},
	}
	for i, n := range need {
		if n.rows == 0 {
			continue
		}
		if strides[i] < n.width {
			return fmt.Errorf("%w: plane %d stride %d below width %d", ErrGeometry, i, strides[i], n.width)
		}
		if len(planes[i]) < (n.rows-1)*strides[i]+n.width {
			return fmt.Errorf("%w: plane %d has %d bytes", ErrGeometry, i, len(planes[i]))
		}
	}
	return nil
}

// hasRow reports whether plane holds width bytes of row.
func hasRow(plane []byte, stride, row, width int) bool {
	return len(plane) >= row*stride+width
}

// fillChromaRow fills chroma row i of a destination plane from the row
// above it, or with neutral chroma when there is none.
func fillChromaRow(plane []byte, cpitch, i int) {
	row := plane[i*cpitch : (i+1)*cpitch]
	if i == 0 {
		for j := range row {
			row[j] = 128
		}
		return
	}
	copy(row, plane[(i-1)*cpitch:i*cpitch])
}

func copyYUVContiguous(dst []byte, pitch int, planes [3][]byte, w, h int) {
	y, v, u := yv12Planes(dst, pitch, h)
	copy(y, planes[0])
	copy(v, planes[2])
	copy(u, planes[1])

	cpitch, rows := YV12Chroma(pitch, h)
	if rows == 0 {
		return
	}
	last, cw := rows-1, w/2
	if !hasRow(planes[2], cpitch, last, cw) {
		fillChromaRow(v, cpitch, last)
	}
	if !hasRow(planes[1], cpitch, last, cw) {
		fillChromaRow(u, cpitch, last)
	}
}

func copyYUVRows(dst []byte, pitch int, planes [3][]byte, strides [3]int, w, h int) {
	y, v, u := yv12Planes(dst, pitch, h)
	cpitch, rows := YV12Chroma(pitch, h)
	cw := w / 2
	for row := 0; row < h; row++ {
		copy(y[row*pitch:row*pitch+w], planes[0][row*strides[0]:])
	}
	for i := 0; i < rows; i++ {
		if hasRow(planes[1], strides[1], i, cw) {
			copy(u[i*cpitch:i*cpitch+cw], planes[1][i*strides[1]:])
		} else {
			fillChromaRow(u, cpitch, i)
		}
		if hasRow(planes[2], strides[2], i, cw) {
			copy(v[i*cpitch:i*cpitch+cw], planes[2][i*strides[2]:])
		} else {
			fillChromaRow(v, cpitch, i)
		}
	}
}

// ARGBToRGBA converts little-endian ARGB8888 rows into tightly packed,
// premultiplied RGBA bytes as expected by GPU uploads.
func ARGBToRGBA(dst []byte, src []byte, srcPitch, w, h int) {
	for row := 0; row < h; row++ {
		in := src[row*srcPitch:]
		out := dst[row*w*4:]
		for col := 0; col < w; col++ {
			b, g, r, a := in[col*4], in[col*4+1], in[col*4+2], in[col*4+3]
			if a != 255 {
				r = uint8(uint16(r) * uint16(a) / 255)
				g = uint8(uint16(g) * uint16(a) / 255)
				b = uint8(uint16(b) * uint16(a) / 255)
			}
			out[col*4] = r
			out[col*4+1] = g
			out[col*4+2] = b
			out[col*4+3] = a
		}
	}
}
