package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/specbook/internal/paths"
	"github.com/mesh-intelligence/specbook/pkg/store"
	"github.com/mesh-intelligence/specbook/pkg/types"
)

func (a *app) newInitCmd() *cobra.Command {
	var (
		backend string
		global  bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize specbook storage",
		Long: "Create the configuration and data directories, write config.yaml if it\n" +
			"is missing, then initialize the storage backend.",
		Annotations: map[string]string{skipConfig: "true"},
		Args:        checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(a.flags.configDir)
			if err != nil {
				return fmt.Errorf("resolve config dir: %w", err)
			}

			cfg := defaultConfigFile()
			if backend != "" {
				cfg.Backend = backend
			}
			cfg.DataDir = a.flags.dataDir
			if global && cfg.DataDir == "" {
				if cfg.DataDir, err = paths.PlatformDataDir(); err != nil {
					return fmt.Errorf("resolve platform data dir: %w", err)
				}
			}
			if _, err := store.NewBackend(cfg.Backend); err != nil {
				return err
			}

			wrote, err := writeConfigIfMissing(configDir, cfg)
			if err != nil {
				return err
			}
			if err := a.loadSettings(); err != nil {
				return err
			}

			st, err := store.Open(a.cfg)
			if err != nil {
				return fmt.Errorf("initialize storage: %w", err)
			}
			if err := st.Detach(); err != nil {
				return fmt.Errorf("finalize storage: %w", err)
			}

			out := cmd.OutOrStdout()
			if !wrote {
				fmt.Fprintf(out, "Keeping existing %s\n", configFileExt)
			}
			fmt.Fprintf(out, "specbook initialized (%s backend, data in %s)\n", a.cfg.Backend, a.cfg.DataDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "", fmt.Sprintf("storage backend: %s or %s (default %s)", types.BackendJSON, types.BackendSQLite, types.BackendJSON))
	cmd.Flags().BoolVar(&global, "global", false, "keep data in the platform data directory instead of $(CWD)/.specbook")
	return cmd
}
