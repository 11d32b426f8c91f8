package cmd

import (
	"github.com/jmoiron/sqlx"

	"github.com/shelfwise/crawler/internal/api"
	"github.com/shelfwise/crawler/internal/catalog"
	"github.com/shelfwise/crawler/internal/config"
	"github.com/shelfwise/crawler/internal/database"
	"github.com/shelfwise/crawler/internal/fetch"
	"github.com/shelfwise/crawler/internal/logger"
	"github.com/shelfwise/crawler/internal/orchestrator"
	"github.com/shelfwise/crawler/internal/queue"
	"github.com/shelfwise/crawler/internal/scrape"
	"github.com/shelfwise/crawler/internal/search"
	"github.com/shelfwise/crawler/internal/worker"
)

// app bundles the wired components shared by the subcommands.
type app struct {
	cfg *config.Config
	log logger.Interface

	db           *sqlx.DB
	jobs         *database.JobRepository
	navigations  *database.NavigationRepository
	categories   *database.CategoryRepository
	products     *database.ProductRepository
	details      *database.DetailRepository
	reviews      *database.ReviewRepository
	history      *database.HistoryRepository
	taskQueue    *queue.ChannelQueue
	orchestrator *orchestrator.Service
	indexer      *search.ProductIndexer
}

// newApp connects the database and wires the scrape pipeline.
func newApp(cfg *config.Config, log logger.Interface) (*app, error) {
	db, err := database.NewPostgresConnection(cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:         cfg,
		log:         log,
		db:          db,
		jobs:        database.NewJobRepository(db),
		navigations: database.NewNavigationRepository(db),
		categories:  database.NewCategoryRepository(db),
		products:    database.NewProductRepository(db),
		details:     database.NewDetailRepository(db),
		reviews:     database.NewReviewRepository(db),
		history:     database.NewHistoryRepository(db),
		taskQueue:   queue.NewChannelQueue(cfg.Queue.Capacity),
	}

	fetchCfg := fetch.Config{
		Timeout:     cfg.Fetch.Timeout,
		MaxAttempts: cfg.Fetch.MaxAttempts,
		UserAgent:   cfg.Fetch.UserAgent,
		Headless:    cfg.Fetch.Headless,
	}
	var fetcher fetch.PageFetcher
	if cfg.Fetch.Engine == "colly" {
		fetcher = fetch.NewCollyFetcher(fetchCfg, log)
	} else {
		fetcher = fetch.NewChromeFetcher(fetchCfg, log)
	}
	extractor := scrape.NewExtractor(fetcher, log)

	if cfg.Search.Enabled {
		client, clientErr := search.NewClient(
			[]string{cfg.Search.Address},
			cfg.Search.Username,
			cfg.Search.Password,
		)
		if clientErr != nil {
			db.Close()
			return nil, clientErr
		}
		a.indexer = search.NewProductIndexer(client, cfg.Search.ProductIndex, log)
	}

	params := orchestrator.Params{
		Jobs:      a.jobs,
		Products:  a.products,
		TaskQueue: a.taskQueue,
		Extractor: extractor,
		NavSync:   catalog.NewNavigationSynchronizer(a.navigations, log),
		CatSync:   catalog.NewCategorySynchronizer(a.categories, log),
		ProdSync:  catalog.NewProductSynchronizer(a.products, a.details, a.reviews, log),
		BaseURL:   cfg.Fetch.BaseURL,
		Logger:    log,
	}
	if a.indexer != nil {
		params.Index = a.indexer
	}
	a.orchestrator = orchestrator.NewService(params)

	return a, nil
}

// workerConfig maps the app config onto the pool settings.
func (a *app) workerConfig() worker.Config {
	wc := worker.DefaultConfig()
	if a.cfg.Worker.PoolSize > 0 {
		wc.PoolSize = a.cfg.Worker.PoolSize
	}
	if a.cfg.Worker.DrainTimeout > 0 {
		wc.DrainTimeout = a.cfg.Worker.DrainTimeout
	}
	if a.cfg.Worker.StuckThreshold > 0 {
		wc.StuckThreshold = a.cfg.Worker.StuckThreshold
	}
	return wc
}

// handlers builds the HTTP handler set.
func (a *app) handlers() api.Handlers {
	h := api.Handlers{
		Scrape:  api.NewScrapeHandler(a.orchestrator),
		Jobs:    api.NewJobsHandler(a.jobs, a.orchestrator),
		Catalog: api.NewCatalogHandler(a.navigations, a.categories, a.products, a.details, a.reviews),
		History: api.NewHistoryHandler(a.history),
	}
	if a.indexer != nil {
		h.Search = api.NewSearchHandler(a.indexer)
	}
	return h
}

// close releases the app's resources.
func (a *app) close() {
	a.taskQueue.Close()
	if err := a.db.Close(); err != nil {
		a.log.Error("failed to close database", "error", err)
	}
}
