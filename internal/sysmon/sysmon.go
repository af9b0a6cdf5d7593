// Package sysmon reports host parallelism, system-wide CPU and memory usage
// through gopsutil, and the CPU features math/big can take advantage of.
package sysmon

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	xcpu "golang.org/x/sys/cpu"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	// Features lists the detected CPU extensions relevant to multi-precision
	// arithmetic, e.g. "adx" or "bmi2".
	Features []string
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	s.Features = CPUFeatures()
	return s
}

// CPUFeatures returns the arithmetic-related CPU extensions of the host in a
// fixed order. It is empty on architectures without such flags.
func CPUFeatures() []string {
	var features []string
	add := func(ok bool, name string) {
		if ok {
			features = append(features, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(xcpu.X86.HasADX, "adx")
		add(xcpu.X86.HasBMI2, "bmi2")
		add(xcpu.X86.HasAVX2, "avx2")
		add(xcpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(xcpu.ARM64.HasASIMD, "asimd")
		add(xcpu.ARM64.HasSVE, "sve")
	}
	return features
}

// LogicalCores returns the number of logical CPUs on the host. It falls back
// to runtime.NumCPU when gopsutil cannot read the topology, and never
// returns less than 1.
func LogicalCores() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		n = runtime.NumCPU()
	}
	return max(n, 1)
}
