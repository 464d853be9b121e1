package random_test

import (
	"encoding/json"
	"testing"

	"github.com/samuelfneumann/rlcore/agent"
	"github.com/samuelfneumann/rlcore/agent/random"
	"github.com/samuelfneumann/rlcore/environment"
	"github.com/samuelfneumann/rlcore/spaces"
)

func TestDiscrete(t *testing.T) {
	actions, _ := spaces.NewDiscrete(3)
	r, err := random.New(actions, 1)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[float64]bool)
	for i := 0; i < 300; i++ {
		a, err := r.DrawAction(nil)
		if err != nil {
			t.Fatal(err)
		}
		if !actions.Contains(a) {
			t.Errorf("action %v not in %v", a.AtVec(0), actions)
		}
		seen[a.AtVec(0)] = true
	}
	if len(seen) != 3 {
		t.Errorf("drew actions %v, want all of {0, 1, 2}", seen)
	}
}

func TestBox(t *testing.T) {
	actions, _ := spaces.NewBox([]float64{-1, 10}, []float64{1, 11}, nil)
	r, err := random.New(actions, 1)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		a, _ := r.DrawAction(nil)
		if !actions.Contains(a) {
			t.Errorf("action %v not in %v", a.RawVector().Data, actions)
		}
	}
}

func TestTypedConfig(t *testing.T) {
	var c agent.TypedConfig
	if err := json.Unmarshal([]byte(`{"Type": "Random", "Config": {}}`),
		&c); err != nil {
		t.Fatal(err)
	}
	if c.Type != random.Type {
		t.Errorf("Type = %v, want %v", c.Type, random.Type)
	}
	if _, ok := c.Config.(random.Config); !ok {
		t.Fatalf("Config type = %T, want random.Config", c.Config)
	}

	obs, _ := spaces.NewUniformBox(0, 1, 2)
	actions, _ := spaces.NewDiscrete(2)
	info, _ := environment.NewMDPInfo(obs, actions, 0.9, 10)
	if _, err := c.CreateAgent(info, 0); err != nil {
		t.Errorf("CreateAgent(): %v", err)
	}

	data, err := json.Marshal(agent.NewTypedConfig(random.Type,
		random.Config{}))
	if err != nil {
		t.Fatal(err)
	}
	var back agent.TypedConfig
	if err := json.Unmarshal(data, &back); err != nil {
		t.Errorf("round trip: %v", err)
	}

	if err := json.Unmarshal([]byte(`{"Type": "Missing"}`), &c); err == nil {
		t.Errorf("unregistered type: expected error")
	}
}
