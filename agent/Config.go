package agent

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/samuelfneumann/rlcore/environment"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes
	CreateAgent(info environment.MDPInfo, seed uint64) (Agent, error)

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error
}

// Type represents a type of agent Config. For example "Random".
type Type string

// Registered types with the package. Once a Type has been registered
// with this map, a TypedConfig with that Type can be unmarshalled.
//
// No Types are registered with this package upon initialization.
// Each separate package registers its own Type to avoid circular
// imports.
var registeredTypes = make(map[Type]reflect.Type)

// Register registers an agent Type with a concrete Config type so that
// upon deserialization of a TypedConfig, Configs of type agentType are
// deserialized into the concrete type of config.
func Register(agentType Type, config Config) {
	registeredTypes[agentType] = reflect.TypeOf(config)
}

// TypedConfig wraps a Config to enable a Config to be JSON marshalled
// and unmarshalled into its underlying concrete type
type TypedConfig struct {
	Type
	Config
}

// NewTypedConfig returns a new TypedConfig
func NewTypedConfig(agentType Type, c Config) TypedConfig {
	return TypedConfig{Type: agentType, Config: c}
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (t *TypedConfig) UnmarshalJSON(data []byte) error {
	var m struct {
		Type   Type
		Config json.RawMessage
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	ty, found := registeredTypes[m.Type]
	if !found {
		return fmt.Errorf("unmarshalJSON: unregistered agent type %q", m.Type)
	}

	// Configs may be registered as values or pointers
	var value reflect.Value
	if ty.Kind() == reflect.Ptr {
		value = reflect.New(ty.Elem())
	} else {
		value = reflect.New(ty)
	}
	if len(m.Config) > 0 {
		if err := json.Unmarshal(m.Config, value.Interface()); err != nil {
			return fmt.Errorf("unmarshalJSON: could not decode %v config: %v",
				m.Type, err)
		}
	}
	if ty.Kind() != reflect.Ptr {
		value = value.Elem()
	}

	t.Type = m.Type
	t.Config = value.Interface().(Config)
	return nil
}
