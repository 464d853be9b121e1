// Command rlcore runs reinforcement learning experiments on Gym and
// Atari simulators.
//
// Experiments are described by JSON configuration files (see package
// config). Simulators are run remotely on a Gym HTTP API server, whose
// URL may be set with the GYM_HTTP_URL environment variable or in a
// .env file, or in process through GoGym when built with the gogym
// build tag.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	_ "github.com/samuelfneumann/rlcore/agent/random"
)

// urlEnv overrides the URL of the gymhttp backend
const urlEnv = "GYM_HTTP_URL"

func main() {
	rootCmd := &cobra.Command{
		Use:   "rlcore",
		Short: "rlcore runs reinforcement learning experiments on Gym and Atari simulators",
	}

	for _, envFile := range []string{
		".env",
		"../../.env",
	} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	rootCmd.AddCommand(newRunCmd(), newPlotCmd(), newEnvsCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
