// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query mem.prof

package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/edwinsyarief/archion"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type comp3 struct {
	V int64
	W int64
}

type comp4 struct {
	V int64
	W int64
}

type comp5 struct {
	V int64
	W int64
}

func main() {
	// CPU Profiling
	f, _ := os.Create("cpu.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	count := 50
	iters := 10000
	entities := 100000
	run(count, iters, entities)

	// Memory Profiling
	memFile, _ := os.Create("mem.prof")
	defer memFile.Close()
	runtime.GC() // Trigger garbage collection
	_ = pprof.WriteHeapProfile(memFile)
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		archion.ResetGlobalRegistry()
		archion.RegisterComponent[comp1]()
		archion.RegisterComponent[comp2]()
		archion.RegisterComponent[comp3]()
		archion.RegisterComponent[comp4]()
		archion.RegisterComponent[comp5]()

		w := archion.NewWorld()
		ids := w.SpawnN(numEntities)
		for _, id := range ids {
			_ = archion.AddComponent(w, id, archion.NoneIdentity, comp1{})
			_ = archion.AddComponent(w, id, archion.NoneIdentity, comp2{})
			_ = archion.AddComponent(w, id, archion.NoneIdentity, comp3{})
			_ = archion.AddComponent(w, id, archion.NoneIdentity, comp4{})
			_ = archion.AddComponent(w, id, archion.NoneIdentity, comp5{})
		}

		stream := archion.CreateStream5[comp1, comp2, comp3, comp4, comp5](
			w, archion.NoneIdentity, archion.NoneIdentity, archion.NoneIdentity, archion.NoneIdentity, archion.NoneIdentity)

		for range iters {
			stream.ForEach(func(_ archion.Identity, c1 *comp1, c2 *comp2, _ *comp3, _ *comp4, _ *comp5) {
				c1.V += c2.V
				c1.W += c2.W
			})
		}
	}
}
