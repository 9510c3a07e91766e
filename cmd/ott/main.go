// ott renders 3D models with a software triangle rasterizer, in the
// terminal, in a desktop window or to PNG files.
//
// Usage:
//
//	ott view [model]            interactive viewer
//	ott render [model] -o out   headless PNG frames
//	ott bench [model]           frame-time statistics
//
// See "ott view --help" for the viewer controls.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
