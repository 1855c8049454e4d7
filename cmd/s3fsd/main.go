// Command s3fsd serves the signed-upload endpoints over the configured
// object stores.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cmstack/s3vfs/backend"
	s3backend "github.com/cmstack/s3vfs/backend/s3"
	"github.com/cmstack/s3vfs/internal/api"
	"github.com/cmstack/s3vfs/internal/config"
	"github.com/cmstack/s3vfs/internal/naming"
	"github.com/cmstack/s3vfs/internal/record"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration load failed", "error", err)
		os.Exit(1)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	records := record.NewStore(db)
	if err := records.Migrate(); err != nil {
		logger.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	resolver := naming.NewResolver(nil)
	registerStores(cfg, resolver, logger)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("metrics listening", "addr", cfg.Server.MetricsAddr)
		if err := http.ListenAndServe(cfg.Server.MetricsAddr, mux); err != nil {
			logger.Error("metrics server stopped", "error", err)
		}
	}()

	server := api.New(cfg, records, logger, nil)
	logger.Info("server starting", "addr", cfg.Server.Addr)
	if err := server.Start(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// registerStores builds one filesystem per configured store and registers it
// under its scheme, logging provisioning findings instead of aborting.
func registerStores(cfg *config.Config, resolver *naming.Resolver, logger *slog.Logger) {
	for scheme, store := range cfg.Stores {
		storeConfig := s3backend.Config{
			Bucket:        store.Bucket,
			Prefix:        store.Prefix,
			Public:        store.Public,
			Region:        store.Region,
			Endpoint:      store.Endpoint,
			CNAME:         store.CNAME,
			CNAMEIsBucket: store.CNAMEIsBucket,
			Protocol:      store.Protocol,
		}

		for _, finding := range storeConfig.Validate() {
			logger.Warn("store configuration finding",
				"scheme", scheme, "severity", finding.Severity, "title", finding.Title, "message", finding.Message)
		}

		fs := s3backend.NewFileSystem(storeConfig).
			WithScheme(scheme).
			WithOptions(s3backend.Options{
				AccessKeyID:     store.Key,
				SecretAccessKey: store.Secret,
				Region:          store.Region,
				Endpoint:        store.Endpoint,
				RoleARN:         store.RoleARN,
				ForcePathStyle:  store.PathStyle,
			}).
			WithNamingPolicy(resolver)

		for _, finding := range fs.Ensure(context.Background()) {
			logger.Warn("store provisioning finding",
				"scheme", scheme, "severity", finding.Severity, "title", finding.Title, "message", finding.Message)
		}

		backend.Register(scheme, fs)
	}
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Database.Driver == "postgres" {
		return gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(cfg.Database.DSN), &gorm.Config{})
}
