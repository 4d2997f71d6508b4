package commands

import (
	"context"
	"fmt"

	"github.com/scoutlab/scout/internal/analysts"
	"github.com/scoutlab/scout/internal/arbiter"
	"github.com/scoutlab/scout/internal/committee"
	"github.com/scoutlab/scout/internal/consensus"
	"github.com/scoutlab/scout/internal/history"
	"github.com/scoutlab/scout/internal/marketdata"
	"github.com/scoutlab/scout/internal/scanner"
	"github.com/scoutlab/scout/pkg/config"
	"github.com/scoutlab/scout/pkg/database"
	"github.com/scoutlab/scout/pkg/logger"
	"github.com/scoutlab/scout/pkg/redis"
)

// deps holds the wired application components shared by the commands.
type deps struct {
	config     *config.Config
	logger     *logger.Logger
	db         *database.DB // nil when no DATABASE_URL
	redis      *redis.Client
	provider   marketdata.Provider
	engine     *scanner.Engine
	scans      *scanner.Service
	panel      []analysts.Analyst
	aggregator *consensus.Aggregator
	committee  *committee.Committee
	history    history.Store
}

// buildDeps wires the full application. The database and the arbiter are
// optional: without DATABASE_URL history lives in memory, and without an
// Anthropic key the committee resolves deterministically.
func buildDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(redisClient, "scout")

	var db *database.DB
	var store history.Store
	if cfg.Database.URL != "" {
		db, err = database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}

		pgStore := history.NewPostgresStore(db.Pool)
		if err := pgStore.EnsureSchema(context.Background()); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure history schema: %w", err)
		}
		store = pgStore
		log.Info("Using Postgres decision history")
	} else {
		store = history.NewMemoryStore()
		log.Info("No DATABASE_URL set, decision history kept in memory")
	}

	var arb committee.Arbiter
	if client, err := arbiter.New(cfg, log); err != nil {
		log.WithError(err).Info("Arbiter disabled, committee will resolve deterministically")
	} else {
		arb = client
	}

	// Seed posture counters from persisted history
	counters := committee.NewCounterStore()
	if debates, wins, err := store.WinnerCounts(context.Background()); err != nil {
		log.WithError(err).Warn("Failed to seed posture counters from history")
	} else if debates > 0 {
		counters.Seed(wins, debates)
	}

	provider := marketdata.NewYahooClient(cfg, log)
	engine := scanner.NewEngine(scanner.DefaultCriteria(), nil, log)
	scans := scanner.NewService(scanner.NewScanner(engine, provider, log), cache, cfg, log)

	return &deps{
		config:     cfg,
		logger:     log,
		db:         db,
		redis:      redisClient,
		provider:   provider,
		engine:     engine,
		scans:      scans,
		panel:      analysts.Default(),
		aggregator: consensus.NewAggregator(log),
		committee:  committee.New(arb, store, counters, log),
		history:    store,
	}, nil
}

// close releases the external connections.
func (d *deps) close() {
	if d.db != nil {
		d.db.Close()
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
}
