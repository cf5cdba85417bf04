package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-maze/internal/config"
)

var flagConfigDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration as YAML. Without --defaults it is the file
that would be used: --config, then ~/.maze/config.yaml, then
./configs/maze.yaml, then the built-in defaults.

Examples:
  maze config > ~/.maze/config.yaml
  maze config --defaults`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefaults, "defaults", false, "Print the built-in defaults")
}

func runConfig(cmd *cobra.Command, _ []string) error {
	if flagConfigDefaults {
		fmt.Print(string(config.GetDefaultYAML()))
		return nil
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
