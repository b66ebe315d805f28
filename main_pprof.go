//go:build !no_pprof

package main

import (
	"flag"
	"os"
	"runtime/pprof"

	"fortio.org/log"
)

// Profiles cover the whole serve loop: cpu starts before binding, heap is written after shutdown.
var (
	cpuProfile  = flag.String("profile-cpu", "", "write cpu profile of the serving session to `file`")
	heapProfile = flag.String("profile-mem", "", "write heap profile to `file` after shutdown")
)

func init() {
	hookBefore = startProfiling
	hookAfter = stopProfiling
}

func startProfiling() int {
	if *cpuProfile == "" {
		return 0
	}
	f, err := os.Create(*cpuProfile)
	if err != nil {
		return log.FErrf("can't create cpu profile: %v", err)
	}
	if err = pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return log.FErrf("can't start cpu profile: %v", err)
	}
	log.Infof("Recording cpu profile to %s", *cpuProfile)
	return 0
}

func stopProfiling() int {
	if *cpuProfile != "" {
		pprof.StopCPUProfile()
	}
	if *heapProfile == "" {
		return 0
	}
	f, err := os.Create(*heapProfile)
	if err != nil {
		return log.FErrf("can't create heap profile: %v", err)
	}
	defer f.Close()
	if err = pprof.WriteHeapProfile(f); err != nil {
		return log.FErrf("can't write heap profile: %v", err)
	}
	log.Infof("Wrote heap profile to %s", *heapProfile)
	return 0
}
