//go:build !unix

package tools

import "os/exec"

// setProcessGroup keeps the default cancellation, which kills only the
// shell. waitDelay bounds how long orphaned children can hold the pipes.
func setProcessGroup(*exec.Cmd) {}
