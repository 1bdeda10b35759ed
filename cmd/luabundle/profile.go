package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"runtime/trace"

	"github.com/luabundle/luabundle/internal/logger"
)

func printErrorToStderr(text string) {
	logger.PrintMsgsToStderr([]logger.Msg{{Kind: logger.Error, Text: text}})
}

func createTraceFile(traceFile string) func() {
	f, err := os.Create(traceFile)
	if err != nil {
		printErrorToStderr(fmt.Sprintf("Failed to create trace file: %s", err.Error()))
		return nil
	}
	trace.Start(f)
	return func() {
		trace.Stop()
		f.Close()
	}
}

func createHeapFile(heapFile string) func() {
	f, err := os.Create(heapFile)
	if err != nil {
		printErrorToStderr(fmt.Sprintf("Failed to create heap file: %s", err.Error()))
		return nil
	}
	return func() {
		if err := pprof.WriteHeapProfile(f); err != nil {
			printErrorToStderr(fmt.Sprintf("Failed to write heap profile: %s", err.Error()))
		}
		f.Close()
	}
}

// To view a CPU profile, drop the file into https://speedscope.app
func createCpuprofileFile(cpuprofileFile string) func() {
	f, err := os.Create(cpuprofileFile)
	if err != nil {
		printErrorToStderr(fmt.Sprintf("Failed to create cpuprofile file: %s", err.Error()))
		return nil
	}
	pprof.StartCPUProfile(f)
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}
}
