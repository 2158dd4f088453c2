// Package main provides the bulk command-line tool.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"github.com/born-ml/bulk/device"
	"github.com/born-ml/bulk/group"
	"github.com/born-ml/bulk/scan"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("bulk %s\n", version)
	case "info":
		info()
	case "bench":
		bench(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("bulk - cooperative tile-based parallel primitives")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  info       Show the device descriptor")
	fmt.Println("  bench      Benchmark the tiled prefix scan")
}

func info() {
	props := device.Current()
	fmt.Printf("arch:            %s\n", props.Arch)
	fmt.Printf("cpus:            %d\n", props.NumCPU)
	fmt.Printf("on-chip scratch: %s\n", humanize.IBytes(uint64(props.OnChipScratchBytes)))
	fmt.Printf("features:        %v\n", props.Features)
}

func bench(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	elements := fs.Int("n", 1<<20, "number of elements to scan")
	size := fs.Int("size", 8, "lanes per group")
	grain := fs.Int("grain", 8, "elements per lane per tile")
	runs := fs.Int("runs", 10, "number of timed runs")
	_ = fs.Parse(args)

	cfg := group.Config{Size: *size, Grain: *grain}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	in := make([]int64, *elements)
	for i := range in {
		in[i] = int64(rng.Intn(1000))
	}
	out := make([]int64, len(in))

	bar := progressbar.Default(int64(*runs), "scanning")
	start := time.Now()
	for r := 0; r < *runs; r++ {
		err := group.Launch(cfg, func(g *group.Group, l group.Lane) {
			scan.Inclusive(g, l, in, out, 0, func(x, y int64) int64 { return x + y })
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "bench: %v\n", err)
			os.Exit(1)
		}
		_ = bar.Add(1)
	}
	elapsed := time.Since(start)

	perRun := elapsed / time.Duration(*runs)
	bytesPerRun := uint64(*elements) * 8
	rate := float64(bytesPerRun) / perRun.Seconds()
	fmt.Printf("\n%d elements, size=%d grain=%d: %v per scan (%s/s)\n",
		*elements, *size, *grain, perRun.Round(time.Microsecond),
		humanize.IBytes(uint64(rate)))
}
