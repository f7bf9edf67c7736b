package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/b2bi-client/cmd/b2bi/commands"
	"github.com/fivetwenty-io/b2bi-client/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "b2bi",
	Short: "B2B integration platform CLI",
	Long: `A command-line interface for the B2B integration platform REST and WS APIs.

It reads, lists, creates, updates and deletes items of any REST service
(mailboxes, tradingpartners, cacertificates, useraccounts, ...) and calls
WS gateway APIs, with optional response caching.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.b2bi/config.yml)")
	rootCmd.PersistentFlags().String("rest-url", "", "REST API base URL")
	rootCmd.PersistentFlags().String("ws-url", "", "WS gateway URL")
	rootCmd.PersistentFlags().StringP("username", "u", "", "username for Basic authentication")
	rootCmd.PersistentFlags().StringP("password", "p", "", "password (prompted when a username is set)")
	rootCmd.PersistentFlags().StringP("token", "t", "", "Bearer access token")
	rootCmd.PersistentFlags().Bool("dry-run", false, "do not send create, update or delete requests")
	rootCmd.PersistentFlags().StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	// Bind flags to viper
	for key, flag := range map[string]string{
		"config":   "config",
		"rest_url": "rest-url",
		"ws_url":   "ws-url",
		"username": "username",
		"password": "password",
		"token":    "token",
		"dry_run":  "dry-run",
		"output":   "output",
		"verbose":  "verbose",
	} {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}

	commands.SetDefaults()

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewGetCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewCreateCommand())
	rootCmd.AddCommand(commands.NewUpdateCommand())
	rootCmd.AddCommand(commands.NewDeleteCommand())
	rootCmd.AddCommand(commands.NewWSCommand())
	rootCmd.AddCommand(commands.NewCacheCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.b2bi/config.yml
		viper.AddConfigPath(filepath.Join(home, ".b2bi"))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("B2BI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
