// Package viz renders a running particle simulation in the terminal.
//
// The package implements a live viewer using the Bubble Tea framework:
//
//   - [Model]: steps a [dynamo.Simulation] on a timer and draws its particles
//   - [Canvas]: Braille-based pixel canvas, 2x4 dots per cell
//   - [Chart]: asciigraph line plot used for energy history
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	S     - Single step while paused
//	+/-   - More/fewer steps per tick
//	R     - Reset to a fresh population
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// G starts capturing frames with particles coloured by speed; pressing it
// again writes an animated GIF to Options.GIFPath.
package viz
