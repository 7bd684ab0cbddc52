package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docver/pkg/config"
)

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after applying the config file, DOCVER_*
environment variables and flags, in config file (TOML) format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.settings().WriteTOML(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "get KEY",
		Short:     "Print a single setting",
		Args:      cobra.ExactArgs(1),
		ValidArgs: sortedKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok := c.settings().Get(args[0])
			if !ok {
				return fmt.Errorf("unknown config key: %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "keys",
		Short: "List configurable keys",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			keys := config.Keys()
			for _, k := range sortedKeys() {
				printKeyValue(cmd.OutOrStdout(), k, keys[k])
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the default config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	})

	return cmd
}

func sortedKeys() []string {
	keys := make([]string, 0, len(config.Keys()))
	for k := range config.Keys() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
