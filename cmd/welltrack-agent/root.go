package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/welltrack/welltrack/internal/agent/api"
	"github.com/welltrack/welltrack/internal/agent/buffer"
	"github.com/welltrack/welltrack/internal/agent/credentials"
	"github.com/welltrack/welltrack/internal/agent/tracker"
	"github.com/welltrack/welltrack/internal/config"
	"github.com/welltrack/welltrack/internal/labeling"
	"go.uber.org/zap"
)

var (
	version    = "dev"
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "welltrack-agent",
	Short: "WellTrack agent - tracks activity time and syncs it to the backend",
	Long: `The WellTrack agent observes activity switches, buffers finalized usage
records locally, and syncs them to the backend in authenticated batches.
Records survive restarts and network loss; the buffer is only cleared
after the backend confirms a batch.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default ~/.welltrack/agent.yaml)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(flushCmd)
	rootCmd.AddCommand(statusCmd)
}

// Execute runs the agent CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() error {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(filepath.Join(home, ".welltrack"))
		viper.SetConfigName("agent")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("WELLTRACK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("api_base", "http://localhost:8080")
	viper.SetDefault("state_dir", defaultStateDir())
	viper.SetDefault("buffer_max", buffer.DefaultMaxRecords)
	viper.SetDefault("social_sites", config.DefaultSocialSites)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath == "" && errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".welltrack"
	}
	return filepath.Join(home, ".welltrack")
}

type agentEnv struct {
	log     *zap.Logger
	store   *buffer.Store
	creds   *credentials.Store
	client  *api.Client
	tracker *tracker.Tracker
}

func newAgentEnv() (*agentEnv, error) {
	if err := loadConfig(); err != nil {
		return nil, err
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}

	stateDir := viper.GetString("state_dir")
	store := buffer.NewStore(filepath.Join(stateDir, "buffer.json"), viper.GetInt("buffer_max"))
	creds := credentials.NewStore(filepath.Join(stateDir, "token"))
	client := api.NewClient(viper.GetString("api_base"))
	labeler := labeling.New(viper.GetStringSlice("social_sites"))

	return &agentEnv{
		log:     log,
		store:   store,
		creds:   creds,
		client:  client,
		tracker: tracker.New(store, labeler, client, creds.Load, log),
	}, nil
}
