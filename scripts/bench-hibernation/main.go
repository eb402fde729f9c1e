// bench-hibernation measures heap memory before and after Hibernate() calls
// on arena-backed interval trees filled with synthetic workloads.
//
// Usage:
//
//	go run ./scripts/bench-hibernation --intervals 5000000 --shards 8 \
//	  --profile-dir docs/profiles/hibernation
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/ale-mal/interval-tree/pkg/rbtree"
	"github.com/ale-mal/interval-tree/pkg/safeconv"
)

const (
	keySpan  = 1 << 28
	maxWidth = 1 << 12
)

func main() {
	intervals := flag.Int("intervals", 1_000_000, "Number of intervals to insert")
	shards := flag.Int("shards", 8, "Number of allocator shards")
	seed := flag.Int64("seed", 1, "Random seed for the workload")
	profileDir := flag.String("profile-dir", "", "Directory to write heap profiles")

	flag.Parse()

	if *profileDir == "" {
		log.Fatal("--profile-dir is required")
	}

	if err := os.MkdirAll(*profileDir, 0o755); err != nil {
		log.Fatalf("mkdir profile-dir: %v", err)
	}

	type heapSnapshot struct {
		label     string
		heapInUse uint64
		heapSys   uint64
		heapIdle  uint64
	}

	var snapshots []heapSnapshot

	takeSnapshot := func(label string) {
		runtime.GC()
		runtime.GC()

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		snapshots = append(snapshots, heapSnapshot{
			label:     label,
			heapInUse: m.HeapInuse,
			heapSys:   m.HeapSys,
			heapIdle:  m.HeapIdle,
		})
		log.Printf("  [heap] %-30s inuse=%6.1f MB  sys=%6.1f MB  idle=%6.1f MB",
			label, float64(m.HeapInuse)/1e6, float64(m.HeapSys)/1e6, float64(m.HeapIdle)/1e6)
	}

	writeHeapProfile := func(name string) {
		runtime.GC()
		runtime.GC()

		path := filepath.Join(*profileDir, name)

		f, ferr := os.Create(path)
		if ferr != nil {
			log.Printf("warning: create heap profile %s: %v", path, ferr)

			return
		}
		defer f.Close()

		if perr := pprof.WriteHeapProfile(f); perr != nil {
			log.Printf("warning: write heap profile %s: %v", path, perr)
		}
	}

	sharded := rbtree.NewShardedAllocator(*shards, 0)
	trees := make([]*rbtree.IntervalTree, *shards)

	for idx := range trees {
		trees[idx] = rbtree.NewIntervalTree(sharded.GetShard(fmt.Sprintf("tree-%d", idx)))
	}

	takeSnapshot("before_insert")
	writeHeapProfile("heap_before_insert.prof")

	rng := rand.New(rand.NewSource(*seed))

	for idx := 0; idx < *intervals; idx++ {
		low := uint32(rng.Intn(keySpan))
		trees[idx%len(trees)].Insert(low, low+uint32(rng.Intn(maxWidth)), safeconv.MustIntToUint32(idx))
	}

	log.Printf("inserted %d intervals across %d shards", *intervals, *shards)

	takeSnapshot("after_insert")
	writeHeapProfile("heap_after_insert.prof")

	sharded.Hibernate()

	takeSnapshot("after_hibernate")
	writeHeapProfile("heap_after_hibernate.prof")

	compressed := 0
	for _, shard := range sharded.Shards() {
		compressed += shard.HibernatedSize()
	}

	log.Printf("compressed arena size: %.1f MB", float64(compressed)/1e6)

	sharded.Boot()

	takeSnapshot("after_boot")
	writeHeapProfile("heap_after_boot.prof")

	// Sanity check: the trees survived the round trip.
	total := 0
	for _, tree := range trees {
		total += tree.Len()
	}

	if total != *intervals {
		log.Fatalf("tree count mismatch after boot: %d != %d", total, *intervals)
	}

	fmt.Println()
	fmt.Println("=== Heap Memory Timeline ===")
	fmt.Printf("%-30s %10s %10s %10s\n", "Phase", "InUse(MB)", "Sys(MB)", "Idle(MB)")
	fmt.Println("------------------------------+----------+----------+----------")

	for _, s := range snapshots {
		fmt.Printf("%-30s %10.1f %10.1f %10.1f\n",
			s.label, float64(s.heapInUse)/1e6, float64(s.heapSys)/1e6, float64(s.heapIdle)/1e6)
	}

	for i := 0; i+1 < len(snapshots); i++ {
		if snapshots[i].label == "after_insert" && snapshots[i+1].label == "after_hibernate" {
			delta := float64(snapshots[i].heapInUse) - float64(snapshots[i+1].heapInUse)
			pct := (delta / float64(snapshots[i].heapInUse)) * 100
			fmt.Printf("\nhibernation freed %.1f MB (%.1f%%)\n", delta/1e6, pct)
		}
	}
}
