package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/transitload/internal/cli"
	"github.com/vvka-141/transitload/pkg/transitload"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(transitload.ExitPanic)
		}
	}()

	if os.Getenv("TRANSITLOAD_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(transitload.ExitCodeForError(err))
	}
}
