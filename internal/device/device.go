// Package device reports static hardware descriptors for the host that
// cooperative groups execute on. The descriptor is detected once and never
// changes for the lifetime of the process.
package device

import (
	"runtime"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/cpu"
	"k8s.io/klog/v2"
)

// Properties describes the executing hardware. It is a static snapshot:
// callers may cache it freely.
type Properties struct {
	// Arch is the GOARCH the process runs on.
	Arch string

	// NumCPU is the hardware parallelism available to lane scheduling.
	NumCPU int

	// OnChipScratchBytes is the budget of the fast scratch pool available
	// to one group. Allocations beyond it spill to off-chip memory.
	OnChipScratchBytes int

	// Features lists detected SIMD/ISA features, informational only.
	Features []string
}

// defaultOnChipScratchBytes matches the common per-group shared-memory
// budget on data-parallel accelerators.
const defaultOnChipScratchBytes = 48 * 1024

var (
	detectOnce sync.Once
	current    Properties
)

// Current returns the hardware descriptor for this host.
func Current() Properties {
	detectOnce.Do(detect)
	return current
}

func detect() {
	current = Properties{
		Arch:               runtime.GOARCH,
		NumCPU:             runtime.NumCPU(),
		OnChipScratchBytes: defaultOnChipScratchBytes,
		Features:           detectFeatures(),
	}
	klog.V(1).Infof("device: arch=%s cpus=%d on-chip scratch=%s features=%v",
		current.Arch, current.NumCPU,
		humanize.IBytes(uint64(current.OnChipScratchBytes)), current.Features)
}

func detectFeatures() []string {
	var features []string
	switch runtime.GOARCH {
	case "amd64":
		if cpu.X86.HasSSE42 {
			features = append(features, "sse4.2")
		}
		if cpu.X86.HasAVX {
			features = append(features, "avx")
		}
		if cpu.X86.HasAVX2 {
			features = append(features, "avx2")
		}
		if cpu.X86.HasAVX512F {
			features = append(features, "avx512f")
		}
		if cpu.X86.HasFMA {
			features = append(features, "fma")
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			features = append(features, "neon")
		}
		if cpu.ARM64.HasSVE {
			features = append(features, "sve")
		}
		if cpu.ARM64.HasATOMICS {
			features = append(features, "lse")
		}
	}
	return features
}
