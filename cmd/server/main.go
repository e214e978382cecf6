// kvd is the self-hostable key-value daemon behind salon-desk. It serves the
// same command protocol as the hosted store, persisting to SQLite or
// PostgreSQL depending on the configured DSN.
package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MKhiriev/salon-desk/internal/config"
	handlerhttp "github.com/MKhiriev/salon-desk/internal/handler/http"
	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/internal/server"
	"github.com/MKhiriev/salon-desk/internal/store"
)

// Build info, set via ldflags.
var (
	buildVersion = "N/A"
	buildDate    = "N/A"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.NewLogger("salon-kvd")
	log.Info().Str("version", buildVersion).Str("buildDate", buildDate).Msg("starting kvd")

	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("storage unavailable")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	storage := store.NewKVStorage(db, log)
	handler := handlerhttp.NewHandler(storage, cfg.KVStore.Token, log)
	srv := server.NewHTTPServer(cfg.Server, handler.Init(), log)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Err(err).Msg("shutdown did not finish cleanly")
		}
	}()

	if err = srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("kvd stopped")
}

// openStorage selects the backend by DSN scheme: a postgres:// URI opens the
// pgx driver, anything else is treated as a SQLite file path.
func openStorage(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*store.DB, error) {
	if strings.HasPrefix(cfg.Storage.DSN, "postgres://") || strings.HasPrefix(cfg.Storage.DSN, "postgresql://") {
		return store.NewConnectPostgres(ctx, cfg.Storage, log)
	}
	return store.NewConnectSQLite(ctx, cfg.Storage, log)
}
