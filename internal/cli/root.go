// Package cli implements the mkfocus command line: the headless HTTP server
// and its housekeeping subcommands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/MihkelHunter/mkFocus/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "mkfocus",
	Short:        "mkFocus: focus timer, task list and streak tracker",
	SilenceUsage: true,
}

// Execute is the entry point called from cmd/web/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: ./mkfocus.yaml or ~/.mkfocus/mkfocus.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug | info | warn | error")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the SQLite database (default: ~/.mkfocus)")
	bindFlag("log_level", rootCmd.PersistentFlags(), "log-level")
	bindFlag("data_dir", rootCmd.PersistentFlags(), "data-dir")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newInitCmd(defaultYAML))
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	home, _ := os.UserHomeDir()
	v := viper.GetViper()
	config.SetDefaults(v, home)

	used, err := config.ReadInConfig(v, cfgFile, home)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error reading config file:", err)
		os.Exit(1)
	}
	if used != "" {
		fmt.Fprintln(os.Stderr, "config:", used)
	}
}

func bindFlag(viperKey string, fs *pflag.FlagSet, flagName string) {
	if err := viper.BindPFlag(viperKey, fs.Lookup(flagName)); err != nil {
		panic(fmt.Sprintf("bindFlag %q → %q: %v", flagName, viperKey, err))
	}
}
