package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kalder-cloud/reagent/internal/config"
	logpkg "github.com/kalder-cloud/reagent/internal/logger"
	ingestuc "github.com/kalder-cloud/reagent/internal/usecase/ingest"
)

func main() {
	var (
		query  = flag.String("query", "", "search query for the article listing (default: config ingest.query)")
		outDir = flag.String("out", "", "output directory for the processed corpus (default: config corpus.dir)")
		pages  = flag.Int("pages", 0, "number of listing pages to fetch (default: config ingest.pages)")
	)
	flag.Parse()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	q := cfg.Ingest.Query
	if *query != "" {
		q = *query
	}
	if q == "" {
		logger.Fatal("No query given (pass -query or set ingest.query)")
	}

	dir := cfg.Corpus.Dir
	if *outDir != "" {
		dir = *outDir
	}
	if *pages > 0 {
		cfg.Ingest.Pages = *pages
	}

	svc := ingestuc.New(ingestuc.Config{
		BaseURL:    cfg.Ingest.BaseURL,
		APIKey:     cfg.Ingest.APIKey,
		Language:   cfg.Ingest.Language,
		PageSize:   cfg.Ingest.PageSize,
		Pages:      cfg.Ingest.Pages,
		WindowDays: cfg.Ingest.WindowDays,
	}, &http.Client{Timeout: time.Duration(cfg.Ingest.FetchTimeoutSec) * time.Second}, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	path, count, err := svc.Run(ctx, q, dir)
	if err != nil {
		logger.Fatal("Ingestion failed", zap.Error(err))
	}

	logger.Info("Corpus written",
		zap.String("path", path),
		zap.Int("documents", count),
	)
}
