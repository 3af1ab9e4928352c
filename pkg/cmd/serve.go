package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/server"
)

const shutdownTimeout = 10 * time.Second

var (
	ServeCmd = &cobra.Command{
		Use:   ServeCmdName,
		Short: ServeCmdShort,
		Long:  ServeCmdLong,
		RunE:  serveCmdFunc(),
	}
)

func init() {
	ServeCmd.Flags().String("address", "", "listen address (default :8080)")
	ServeCmd.Flags().String("dataset", "", "CSV dataset used to build the make/model catalog")
	_ = viper.BindPFlag("server.address", ServeCmd.Flags().Lookup("address"))
	_ = viper.BindPFlag("catalog.dataset", ServeCmd.Flags().Lookup("dataset"))
}

func serveCmdFunc() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close()

		opts := server.Options{
			Catalog:      a.catalog,
			Metrics:      promhttp.Handler(),
			Log:          a.log,
			ReadTimeout:  a.cfg.Server.ReadTimeout,
			WriteTimeout: a.cfg.Server.WriteTimeout,
		}
		// a nil *predict.Service must stay a nil interface
		if a.service != nil {
			opts.Predictor = a.service
		}
		serve := server.NewHTTPServer(a.cfg.Server.Address, opts)

		errCh := make(chan error, 1)
		go func() {
			a.log.Info("started serve cmd", zap.String("address", serve.Addr))
			if err := serve.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		a.log.Info("shutting down the server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return serve.Shutdown(shutdownCtx)
	}
}
