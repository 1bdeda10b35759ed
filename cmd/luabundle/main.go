package main

import (
	"os"
	"strings"

	"github.com/luabundle/luabundle/pkg/cli"
)

func main() {
	osArgs := os.Args[1:]
	traceFile := ""
	cpuprofileFile := ""
	heapFile := ""

	// Profiling flags are handled here so the command itself never sees them
	argsEnd := 0
	for _, arg := range osArgs {
		switch {
		case strings.HasPrefix(arg, "--trace="):
			traceFile = arg[len("--trace="):]

		case strings.HasPrefix(arg, "--cpuprofile="):
			cpuprofileFile = arg[len("--cpuprofile="):]

		case strings.HasPrefix(arg, "--heap="):
			heapFile = arg[len("--heap="):]

		default:
			osArgs[argsEnd] = arg
			argsEnd++
		}
	}
	osArgs = osArgs[:argsEnd]

	// Capture the defer statements below so the profiles are complete on exit
	exitCode := 1
	func() {
		// To view a CPU trace, use "go tool trace [file]"
		if traceFile != "" {
			done := createTraceFile(traceFile)
			if done == nil {
				return
			}
			defer done()
		}

		if heapFile != "" {
			done := createHeapFile(heapFile)
			if done == nil {
				return
			}
			defer done()
		}

		if cpuprofileFile != "" {
			done := createCpuprofileFile(cpuprofileFile)
			if done == nil {
				return
			}
			defer done()
		}

		exitCode = cli.Run(osArgs)
	}()

	os.Exit(exitCode)
}
