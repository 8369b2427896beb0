// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the datapacket CLI, which builds the
// K-12 data packet: ACT scores from PDF, NAEP results from workbooks, and a
// tracker of every data pull.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/datapacket/internal/logging"
	"github.com/pdiddy/datapacket/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir holds one-value credential files.
const secretsDir = ".secrets/"

var (
	// cfg is the loaded configuration, set before any subcommand runs.
	cfg types.Config

	logger = zap.NewNop()
)

// rootCmd is the base command for the datapacket CLI.
var rootCmd = &cobra.Command{
	Use:   "datapacket",
	Short: "Build the K-12 data packet from state score PDFs and workbooks",
	Long: `datapacket extracts the tables behind the K-12 data packet. The act
command pulls ACT averages by state out of the published PDF, repairing
state names that the PDF splits across lines. The naep command exports
NAEP workbook sheets, and sources tracks every data pull in a SQLite
database that the serve command exposes as a web form.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = c

		l, err := logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./datapacket.yaml or ~/.config/datapacket/datapacket.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the source PDFs and workbooks")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("datapacket")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "datapacket"))
		}
	}

	viper.SetEnvPrefix("DATAPACKET")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
