// Package epd packs quantized grayscale images into the framebuffer format
// e-paper controllers read.
//
// Each pixel becomes an index of BitsPerPixel bits. Indices are packed most
// significant first: the first pixel of a byte occupies its highest bits.
// A byte that is not filled is shifted left so the unused low bits are
// zero.
//
// # Layouts
//
// RowAligned, the default, starts every row on a fresh byte, so a frame is
// ceil(width/pixelsPerByte) * height bytes and no byte spans two rows.
// Flat packs the whole image as one pixel stream of
// ceil(width*height/pixelsPerByte) bytes. The two agree whenever the width
// is a multiple of pixelsPerByte.
package epd
