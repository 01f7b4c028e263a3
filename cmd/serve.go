package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xhad/columnar/pkg/session"
	"github.com/xhad/columnar/server"
	"go.uber.org/zap"
)

func newServeCommand(configPath *string) *cobra.Command {
	var (
		addr    string
		origins []string
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and websocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, true)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger, err := newLogger(debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			extractor, err := newExtractor(cfg)
			if err != nil {
				return err
			}
			columns, err := openColumns(ctx, cfg)
			if err != nil {
				return err
			}
			defer columns.Close()

			sess := session.New(extractor, columns, session.WithLogger(logger.Named("session")))
			srv := server.New(server.Config{
				Addr:            cfg.Server.Addr,
				DataFilename:    cfg.Export.DataFilename,
				ContentFilename: cfg.Export.ContentFilename,
				AllowedOrigins:  origins,
			}, sess, columns, logger.Named("server"))

			logger.Info("serving",
				zap.String("addr", cfg.Server.Addr),
				zap.String("provider", cfg.LLM.Provider),
				zap.String("model", cfg.LLM.Model))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().StringSliceVar(&origins, "allowed-origin", nil, "Allowed websocket origin (repeatable)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable development logging")
	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
