package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ory/graceful"
	"github.com/spf13/cobra"
	"github.com/ugent-library/coffee-shop-env/environment"
	"github.com/ugent-library/zaphttp"
	"github.com/ugent-library/zaphttp/zapchi"
)

func init() {
	rootCmd.AddCommand(serverCmd)
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "start server",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, c, err := loadEnvironment(cmd.Context())
		if err != nil {
			return err
		}

		envServer, err := environment.NewServer(environment.ServerConfig{
			Profile: profile,
			Config:  c,
			Logger:  logger,
		})
		if err != nil {
			return err
		}

		mux := chi.NewMux()
		mux.Use(middleware.RequestID)
		mux.Use(middleware.RealIP)
		mux.Use(zaphttp.SetLogger(logger.Desugar(), zapchi.RequestID))
		mux.Use(middleware.RequestLogger(zapchi.LogFormatter()))
		mux.Use(middleware.Recoverer)

		mux.Get("/environment.json", envServer.JSON)
		mux.Get("/environment.ts", envServer.TypeScript)

		addr := fmt.Sprintf("%s:%s", config.Host, config.Port)
		srv := graceful.WithDefaults(&http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		})

		logger.Infof("serving %s environment at %s", profile, addr)
		if err := graceful.Graceful(srv.ListenAndServe, srv.Shutdown); err != nil {
			return err
		}
		logger.Info("gracefully stopped server")
		return nil
	},
}
