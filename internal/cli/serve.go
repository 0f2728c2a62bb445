package cli

import (
	"github.com/spf13/cobra"

	"github.com/curiosity110/LabelForge/internal/api"
	"github.com/curiosity110/LabelForge/pkg/fonts"
)

// newServeCmd creates the serve command for running the HTTP API.
func newServeCmd() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			fontSrc, err := fonts.Load(cfg.Render.Font)
			if err != nil {
				return err
			}

			logger.Info("starting API", "addr", cfg.Server.Addr)
			srv := api.NewServer(logger, cfg.PipelineLimits(), fontSrc)
			return srv.ListenAndServe(cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config, default :8080)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to labelforge.toml")
	return cmd
}
