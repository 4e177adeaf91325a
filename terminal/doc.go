// Package terminal presents an 8-bit indexed framebuffer on a tcell screen.
//
// Each terminal cell shows two vertically stacked pixels using the upper
// half block: the foreground carries the top pixel's palette color and the
// background the bottom pixel's. A terminal of C columns and R rows therefore
// backs a C x 2R pixel surface.
//
// The display doubles as the event pump for the frame clock: PumpEvents drains
// queued tcell events without blocking, records quit and resize requests and
// presents the current buffer.
package terminal
