package main

import (
	"bufio"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and store a bearer token for syncing",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAgentEnv()
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), "Username: ")
		reader := bufio.NewReader(cmd.InOrStdin())
		username, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		username = strings.TrimSpace(username)

		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		password, err := readPassword(reader)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())

		token, err := env.client.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		if err := env.creds.Save(token); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Logged in; buffered records will sync on the next switch or flush.")
		return nil
	},
}

func readPassword(fallback *bufio.Reader) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	line, err := fallback.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
