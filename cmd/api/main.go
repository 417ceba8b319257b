package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketplace-report-api/infrastructure/currency"
	"github.com/vfg2006/marketplace-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/marketplace-report-api/infrastructure/repository"
	"github.com/vfg2006/marketplace-report-api/internal/api"
	"github.com/vfg2006/marketplace-report-api/internal/catalog"
	"github.com/vfg2006/marketplace-report-api/internal/config"
	"github.com/vfg2006/marketplace-report-api/internal/ingest"
	"github.com/vfg2006/marketplace-report-api/internal/scheduler"
	"github.com/vfg2006/marketplace-report-api/internal/usecases/reporting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid log level: %s, using 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Log level set to: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	runRepo := repository.NewReportRunRepository(pgConn)

	catalogStore := catalog.NewStore(cfg.Catalog.ConfigDir)
	converter := currency.NewConverter(cfg)

	reportService := reporting.NewService(cfg, catalogStore, converter, runRepo)

	organizer := ingest.NewOrganizer(cfg.Ingest.DataRoot)
	ingestSyncService := scheduler.NewIngestSyncService(organizer, cfg)

	if err := ingestSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Failed to start the ingest sweep scheduler")
	} else {
		logrus.Info("Ingest sweep scheduler started")
	}

	server, err := api.New(
		cfg,
		reportService,
		runRepo,
		ingestSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to ping PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
