// Package pipeline wires the imaging, dither and epd stages into the full
// image-to-framebuffer conversion and drives it over single files or whole
// directory trees.
//
// A Processor is built once from a validated configuration. It holds no
// per-image state, so Batch runs one Processor from several workers, each
// owning the images it renders.
package pipeline
