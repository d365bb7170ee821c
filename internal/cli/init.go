package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const defaultYAML = `# mkFocus config
# Priority: CLI flag > MKFOCUS_* env var > this file > default.

log_level:       "info"       # debug | info | warn | error
store:           "sqlite"     # sqlite | redis | memory
# data_dir:      "~/.mkfocus" # SQLite database directory

redis_addr:      "localhost:6379"
redis_prefix:    "mkfocus:"

http_addr:       ":8080"

expiry_delay:    "1m"         # completed tasks are removed after this long
default_minutes: 25           # initial focus session length, 1..60
calendar_days:   365          # heat-map span
`

// newInitCmd returns an "init" subcommand that writes a default config file.
func newInitCmd(defaultYAML string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write the default mkFocus configuration.

If --config is given the file is written to that path.
Otherwise it is written to ~/.mkfocus/mkfocus.yaml.
Fails if the file already exists unless --force is passed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dest := cfgFile
			if dest == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("home dir: %w", err)
				}
				dest = filepath.Join(home, ".mkfocus", "mkfocus.yaml")
			}
			if err := writeDefault(dest, defaultYAML, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", dest)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config file")
	return cmd
}

func writeDefault(dest, content string, force bool) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	if !force {
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", dest)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", dest, err)
		}
	}

	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
