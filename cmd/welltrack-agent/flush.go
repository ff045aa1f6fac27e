package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var flushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Transmit the buffered records now",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAgentEnv()
		if err != nil {
			return err
		}
		defer env.log.Sync()

		if env.creds.Load() == "" {
			return errors.New("no credential stored; run `welltrack-agent login` first")
		}
		return env.tracker.Flush(cmd.Context())
	},
}
