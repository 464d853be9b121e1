//go:build gogym

package main

import (
	"context"

	"github.com/samuelfneumann/rlcore/config"
	"github.com/samuelfneumann/rlcore/simulator"
	"github.com/samuelfneumann/rlcore/simulator/gogym"
)

func init() {
	backends[config.GoGym] = goGymBackend
}

func goGymBackend(_ context.Context, _ config.Backend,
	seed uint64) (*simulator.Registry, func(), error) {
	reg := simulator.NewRegistry()
	reg.SetFallback(gogym.Factory(int(seed)))
	return reg, gogym.Shutdown, nil
}
