package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samuelfneumann/rlcore/config"
	"github.com/samuelfneumann/rlcore/simulator"
	"github.com/samuelfneumann/rlcore/simulator/gymhttp"
)

// backendFunc creates a registry of the simulators of a backend, along
// with a function releasing the backend
type backendFunc func(ctx context.Context, b config.Backend,
	seed uint64) (*simulator.Registry, func(), error)

// backends maps each backend kind to its constructor. Backends which
// need cgo register themselves in files with build tags.
var backends = map[config.BackendKind]backendFunc{
	config.GymHTTP: gymHTTPBackend,
}

// newRegistry returns a registry of the simulators of backend b
func newRegistry(ctx context.Context, b config.Backend,
	seed uint64) (*simulator.Registry, func(), error) {
	create, ok := backends[b.Kind]
	if !ok {
		if b.Kind == config.GoGym {
			return nil, nil, fmt.Errorf("newRegistry: the gogym backend " +
				"requires building with the gogym build tag")
		}
		return nil, nil, fmt.Errorf("newRegistry: no such backend %q", b.Kind)
	}
	return create(ctx, b, seed)
}

// gymHTTPClient returns a client of the Gym HTTP API server of b. The
// GYM_HTTP_URL environment variable overrides the configured URL.
func gymHTTPClient(b config.Backend) (*gymhttp.Client, error) {
	url := b.URL
	if env := os.Getenv(urlEnv); env != "" {
		url = env
	}
	if url == "" {
		return nil, fmt.Errorf("no gym http server url, set %v or the "+
			"backend url", urlEnv)
	}
	return gymhttp.NewClient(url, nil)
}

func gymHTTPBackend(ctx context.Context, b config.Backend,
	_ uint64) (*simulator.Registry, func(), error) {
	client, err := gymHTTPClient(b)
	if err != nil {
		return nil, nil, fmt.Errorf("gymHTTPBackend: %v", err)
	}

	reg := simulator.NewRegistry()
	reg.SetFallback(gymhttp.Factory(ctx, client))
	return reg, func() {}, nil
}
