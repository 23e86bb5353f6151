package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/sutra-power/internal/app"
	"github.com/rcliao/sutra-power/internal/logging"
	"github.com/rcliao/sutra-power/internal/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog API and model uploads over HTTP",
		Run:   runServe,
	}

	cmd.Flags().StringP("addr", "a", "", "Listen address (default: $SUTRA_ADDR or :8080)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, s, status := openCatalog(cmd)
	defer closeStore(s)
	if status.Notice != "" {
		logger.Warn(status.Notice)
	}

	log := logging.Component(logger, "http")
	srv := server.New(server.Options{
		Addr:      cfg.Addr,
		UploadDir: cfg.UploadDir,
		Catalog:   svc,
		Status:    func() app.Status { return status },
		Log:       log,
	})

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr), zap.String("uploads", cfg.UploadDir))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			exitErr("serve", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
		log.Info("stopped")
	}
}
