package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Track activity switches read from stdin",
	Long: `Reads one activity name per line from stdin and treats each line as a
switch event. The interval spent on the previous activity is finalized,
labeled, buffered, and synced when a credential is available. EOF
finalizes the open interval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAgentEnv()
		if err != nil {
			return err
		}
		defer env.log.Sync()

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			name := strings.TrimSpace(scanner.Text())
			if name == "" {
				continue
			}
			env.tracker.Switch(cmd.Context(), name)
		}
		if err := scanner.Err(); err != nil {
			return err
		}

		env.tracker.Stop(cmd.Context())
		if err := env.tracker.Flush(cmd.Context()); err != nil {
			// Buffer stays intact; the next run retries.
			fmt.Fprintln(cmd.ErrOrStderr(), "final flush failed, records kept in buffer:", err)
		}
		return nil
	},
}
