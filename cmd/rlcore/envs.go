package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/samuelfneumann/rlcore/config"
	"github.com/samuelfneumann/rlcore/simulator/gymhttp"
	"github.com/spf13/cobra"
)

func newEnvsCmd() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "envs",
		Short: "List the environment instances running on a Gym HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := gymHTTPClient(config.Backend{
				Kind: config.GymHTTP,
				URL:  url,
			})
			if err != nil {
				return err
			}
			return listEnvs(cmd, client)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "url of the Gym HTTP API server")
	return cmd
}

// listEnvs prints each instance on the server, marking Atari games
// whose action meanings are known
func listEnvs(cmd *cobra.Command, client *gymhttp.Client) error {
	envs, err := client.List(context.Background())
	if err != nil {
		return fmt.Errorf("envs: %v", err)
	}

	ids := make([]string, 0, len(envs))
	for id := range envs {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	out := cmd.OutOrStdout()
	for _, id := range ids {
		name := envs[gymhttp.InstanceID(id)]
		kind := "Gym"
		if gymhttp.IsAtari(name) {
			kind = "Atari (" + gymhttp.Game(name) + ")"
		}
		fmt.Fprintf(out, "%v\t%v\t%v\n", id, name, kind)
	}
	return nil
}
