package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BakaI9/excalidraw/internal/paths"
	"github.com/BakaI9/excalidraw/internal/sqlite"
)

func newInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize board configuration and storage",
		Long:  "Create the configuration and data directories, write config.yaml, and create an empty board.",
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.boardConfig()
			if err != nil {
				return err
			}

			fc := defaultFileConfig()
			fc.Backend = cfg.Backend
			fc.LogLevel = cfg.LogLevel
			fc.DuplicateOffset = cfg.DuplicateOffset
			fc.Development = a.v.GetBool(cfgKeyDevelopment)
			fc.Metrics = a.v.GetBool(cfgKeyMetrics)
			if a.flags.dataDir != "" {
				fc.DataDir = cfg.DataDir
			}
			if err := writeConfigFile(a.configDir, fc, force); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			backend := sqlite.NewBackend(sqlite.WithLogger(a.logger))
			if err := backend.Attach(cfg); err != nil {
				return fmt.Errorf("initialize storage: %w", err)
			}
			if err := backend.Detach(); err != nil {
				return fmt.Errorf("finalize storage: %w", err)
			}

			if a.flags.json {
				return a.printJSON(map[string]string{
					"config": paths.ConfigFile(a.configDir),
					"data":   cfg.DataDir,
				})
			}
			fmt.Fprintln(a.out, "Board initialized")
			fmt.Fprintln(a.out, "  config:", paths.ConfigFile(a.configDir))
			fmt.Fprintln(a.out, "  data:  ", cfg.DataDir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config.yaml")
	return cmd
}
