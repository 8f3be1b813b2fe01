package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/greenleaf/plant-notes/internal/config"
	"github.com/greenleaf/plant-notes/internal/db"
	httpSrv "github.com/greenleaf/plant-notes/internal/http"
	"github.com/greenleaf/plant-notes/internal/logger"
)

var (
	serveHost  string
	servePort  int
	serveDebug bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// command-line flags win over the config file
		if cmd.Flags().Changed("host") {
			cfg.HTTP.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			cfg.HTTP.Port = servePort
		}
		if cmd.Flags().Changed("debug") {
			cfg.HTTP.Debug = serveDebug
		}

		logger.Init(cfg.Log.Level, cfg.HTTP.Debug)

		conn, err := db.NewSQLiteConnection(cfg.SQLite.Path, db.SQLiteOpts{
			MaxOpenConns:    cfg.SQLite.MaxOpenConns,
			MaxIdleConns:    cfg.SQLite.MaxIdleConns,
			ConnMaxLifetime: cfg.SQLite.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.SQLite.ConnMaxIdleTime,
			PingTimeout:     cfg.SQLite.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("sqlite connect: %w", err)
		}
		defer conn.Close()

		if err := db.EnsureSchema(conn); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}

		server := httpSrv.NewServer(cfg, conn)
		addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

		errCh := make(chan error, 1)
		go func() {
			log.Printf("starting http on %s", addr)
			errCh <- server.Start(addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Printf("signal received: %s, shutting down...", sig)
		case err := <-errCh:
			if err != nil {
				log.Printf("http server exited: %v", err)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)

		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "host to bind")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 5000, "port to listen on")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "enable debug mode")
}
