// Command demo writes the demo week into the configured store, replacing
// sessions with the same ids.
package main

import (
	"context"
	"fmt"

	"tableflip.dev/harmonizer/pkg/session"
	"tableflip.dev/harmonizer/pkg/store"
)

func main() {
	cfg, err := store.LoadConfig()
	if err != nil {
		panic(err)
	}
	p, err := store.Load(cfg)
	if err != nil {
		panic(err)
	}

	n, err := store.Import(context.Background(), p, session.Demo())
	if err != nil {
		panic(err)
	}
	fmt.Printf("wrote %d sessions to %s\n", n, cfg.BasePath())
}
