// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/edwinsyarief/archion"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 10000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		archion.ResetGlobalRegistry()
		archion.RegisterComponent[comp1]()
		archion.RegisterComponent[comp2]()

		w := archion.NewWorld()

		for range iters {
			ids := w.SpawnN(numEntities)
			for _, id := range ids {
				_ = archion.AddComponent(w, id, archion.NoneIdentity, comp1{})
				_ = archion.AddComponent(w, id, archion.NoneIdentity, comp2{})
			}

			stream := archion.CreateStream2[comp1, comp2](w, archion.NoneIdentity, archion.NoneIdentity)
			var toDespawn []archion.Identity
			stream.ForEach(func(e archion.Identity, c1 *comp1, c2 *comp2) {
				c1.V += c2.V
				c1.W += c2.W
				toDespawn = append(toDespawn, e)
			})

			unlock := w.Lock()
			for _, e := range toDespawn {
				_ = w.Despawn(e)
			}
			unlock()
		}
	}
}
