package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orderhub/orderhub/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the OrderHub API server",
		Long:  "Start the HTTP server that exposes the orders and products API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (verbose logging)")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(dev bool) error {
	cfg := loadConfig()
	logger := newLogger(cfg, dev)

	validator, err := newValidator(cfg)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	logger.Info("store opened", "driver", st.Driver())

	srvCfg := server.Config{
		Host:              cfg.Server.Host,
		Port:              cfg.Server.Port,
		ShutdownTimeout:   cfg.ShutdownTimeout(),
		CORSOrigins:       cfg.Server.CORS.Origins,
		RequestsPerMinute: cfg.Server.RequestsPerMinute,
		BaseURL:           cfg.Server.BaseURL,
		Version:           appVersion,
	}
	srv := server.New(srvCfg, st, validator, logger)

	fmt.Printf("→ OrderHub %s\n", appVersion)
	fmt.Printf("→ Listening on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("→ OpenAPI:  http://%s:%d/openapi.json\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("→ Health:   http://%s:%d/healthz\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()

	return srv.ListenAndServe()
}
