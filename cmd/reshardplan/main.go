// Command reshardplan loads a mesh plus an input/output sharding pair from a
// YAML file and prints the collective chain the planner synthesizes to
// reshard between them, in the narrative-demo style of the examples/ package
// (e.g. dijkstra_city_route.go): a small, self-contained scenario run
// straight through and its result dumped for inspection.
//
// Usage:
//
//	reshardplan -config case.yaml
//
// See meshcfg.Document for the YAML shape.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/sdycore/reshard/meshcfg"
	"github.com/sdycore/reshard/planner"
)

func main() {
	configPath := flag.String("config", "", "path to a meshcfg YAML file describing the mesh and in/out shardings")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("reshardplan: -config is required")
	}

	data, err := os.ReadFile(*configPath)
	if err != nil {
		log.Fatalf("reshardplan: reading %s: %v", *configPath, err)
	}

	c, err := meshcfg.ParseCase(data)
	if err != nil {
		log.Fatalf("reshardplan: %v", err)
	}

	chain, err := planner.Plan(c.In, c.Out)
	if err != nil {
		log.Fatalf("reshardplan: planning failed: %v", err)
	}

	fmt.Printf("mesh %q: reshard %s -> %s\n", c.Mesh.Name(), c.In, c.Out)
	fmt.Printf("%d collective(s):\n", len(chain.Ops))
	for i, op := range chain.Ops {
		fmt.Printf("  %d. %s\n", i, op)
	}

	if _, err := planner.Replay(c.In, chain, c.Out); err != nil {
		log.Fatalf("reshardplan: replay check failed: %v", err)
	}

	spew.Dump(chain)
}
