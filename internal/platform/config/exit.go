package config

import (
	"fmt"
	"io"
	"os"
)

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(stderr, format+"\n", args...)
	exit(1)
}

// ExitOnError exits through Exitf when err is non-nil, labelling the failure
// with the step that produced it.
func ExitOnError(step string, err error) {
	if err == nil {
		return
	}
	Exitf("%s: %v", step, err)
}
