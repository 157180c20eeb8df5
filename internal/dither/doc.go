// Package dither reduces grayscale images to a fixed number of evenly
// spaced intensity levels.
//
// Error-diffusion methods walk the image in raster order, quantize each
// pixel to the nearest level and push the quantization error onto the
// not-yet-visited neighbors named by the method's Kernel. The walk is
// strictly sequential: every pixel depends on the error accumulated from
// the pixels before it.
//
// Ordered methods compare each pixel against a Bayer threshold matrix and
// carry no error between pixels.
//
// Methods are resolved once from their names with ParseMethod; unknown
// names fail with ErrUnsupportedMethod and never fall back to a default.
package dither
