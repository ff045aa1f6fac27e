package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show buffer depth and credential state",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAgentEnv()
		if err != nil {
			return err
		}

		depth, err := env.store.Len()
		if err != nil {
			return err
		}

		credential := "absent"
		if env.creds.Load() != "" {
			credential = "present"
		}

		fmt.Fprintf(cmd.OutOrStdout(), "api:        %s\n", viper.GetString("api_base"))
		fmt.Fprintf(cmd.OutOrStdout(), "buffer:     %d unsent record(s)\n", depth)
		fmt.Fprintf(cmd.OutOrStdout(), "credential: %s\n", credential)
		return nil
	},
}
