// Package imaging provides the geometric stages of the e-paper pipeline.
//
// It loads images, samples the background from the four corners, detects the
// bounding box of the foreground, reframes the result to the panel aspect
// ratio and resamples it to the panel size. Coordinates are 0-based with
// (0,0) at the top-left corner; regions include their top-left edge and
// exclude their bottom-right edge.
//
// # Channel Model
//
// Single-channel images (*image.Gray) stay single-channel through every
// operation here. Everything else is treated as RGB with alpha ignored and
// comes back as *image.NRGBA. Results are always anchored at (0,0).
//
// # Reframing
//
// A border whose variance falls below the solid tolerance is a flat
// background, so the image is padded with that color to reach the panel
// ratio. Textured borders are cropped symmetrically instead. Images already
// within RatioTolerance of the ratio pass through untouched.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other function is
// stateless and never mutates its input.
package imaging
