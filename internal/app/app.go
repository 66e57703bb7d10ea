package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-sync/external/sportmonks"
	"github.com/riskibarqy/fixture-sync/internal/config"
	"github.com/riskibarqy/fixture-sync/internal/domain/errorlog"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/riskibarqy/fixture-sync/internal/domain/satellite"
	"github.com/riskibarqy/fixture-sync/internal/domain/syncstate"
	"github.com/riskibarqy/fixture-sync/internal/domain/taxonomy"
	cacherepo "github.com/riskibarqy/fixture-sync/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fixture-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fixture-sync/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fixture-sync/internal/interfaces/httpapi"
	"github.com/riskibarqy/fixture-sync/internal/platform/cache"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/riskibarqy/fixture-sync/internal/platform/resilience"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

const lookupCacheTTL = 5 * time.Minute

type repositories struct {
	fixtures   fixture.Repository
	state      syncstate.Repository
	taxonomy   taxonomy.Repository
	satellites satellite.Repository
	errorLogs  errorlog.Repository
}

// App holds the wired services shared by the API and the sync CLI.
type App struct {
	cfg    config.Config
	logger *logging.Logger
	db     *sqlx.DB

	Client      *sportmonks.Client
	SyncManager *usecase.SyncManager
	Satellites  *usecase.SatelliteService
	Taxonomy    *usecase.TaxonomyService
	ErrorLogs   *usecase.ErrorLogService
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	app := &App{cfg: cfg, logger: logger}

	var repos repositories
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDB(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		app.db = db
		repos = repositories{
			fixtures:   postgres.NewFixtureRepository(db),
			state:      postgres.NewSyncStateRepository(db),
			taxonomy:   postgres.NewTaxonomyRepository(db),
			satellites: postgres.NewSatelliteRepository(db),
			errorLogs:  postgres.NewErrorLogRepository(db),
		}
	default:
		logger.Warn("using in-memory storage, state is lost on restart")
		repos = repositories{
			fixtures:   memory.NewFixtureRepository(nil),
			state:      memory.NewSyncStateRepository(),
			taxonomy:   memory.NewTaxonomyRepository(),
			satellites: memory.NewSatelliteRepository(cache.NewStore(cfg.SyncTTLSquads)),
			errorLogs:  memory.NewErrorLogRepository(),
		}
	}

	lookups := cache.NewStore(lookupCacheTTL)
	stateRepo := cacherepo.NewSyncStateRepository(repos.state, lookups)
	taxonomyRepo := cacherepo.NewTaxonomyRepository(repos.taxonomy, lookups)

	app.ErrorLogs = usecase.NewErrorLogService(repos.errorLogs, logger.Named("errorlog"))
	app.Client = sportmonks.NewClient(sportmonks.ClientConfig{
		BaseURL:  cfg.SportMonksBaseURL,
		Token:    cfg.SportMonksToken,
		Timeout:  cfg.SportMonksTimeout,
		CacheTTL: cfg.SportMonksCacheTTL,
		Cache:    cache.NewStore(cfg.SportMonksCacheTTL),
		Reporter: app.ErrorLogs,
		Logger:   logger.Named("sportmonks"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SportMonksCircuitEnabled,
			FailureThreshold: cfg.SportMonksCircuitFailureCount,
			OpenTimeout:      cfg.SportMonksCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SportMonksCircuitHalfOpenMaxReq,
		},
	})

	app.Taxonomy = usecase.NewTaxonomyService(taxonomyRepo, logger)
	app.Satellites = usecase.NewSatelliteService(app.Client, repos.satellites, stateRepo, app.ErrorLogs, usecase.SatelliteConfig{
		Enabled: map[syncstate.Feature]bool{
			syncstate.FeatureSquads:    cfg.SyncSquads,
			syncstate.FeatureInjuries:  cfg.SyncInjuries,
			syncstate.FeatureTransfers: cfg.SyncTransfers,
		},
		TTL: map[satellite.Kind]time.Duration{
			satellite.KindSquads:    cfg.SyncTTLSquads,
			satellite.KindInjuries:  cfg.SyncTTLInjuries,
			satellite.KindTransfers: cfg.SyncTTLTransfers,
		},
	}, logger)
	app.SyncManager = usecase.NewSyncManager(app.Client, repos.fixtures, stateRepo, app.Taxonomy, app.Satellites, app.ErrorLogs, usecase.SyncManagerConfig{
		Teams:          syncTeams(cfg.SyncTeams),
		DeletedEnabled: cfg.SyncDeleted,
		DeletedDays:    cfg.SyncDeletedDays,
	}, logger)

	return app, nil
}

// ConfigureTeams maps every named team to its category term. A failure is
// logged and leaves that team uncategorised.
func (a *App) ConfigureTeams(ctx context.Context) {
	for _, team := range a.cfg.SyncTeams {
		if team.Name == "" {
			continue
		}
		if _, err := a.Taxonomy.ConfigureTeam(ctx, team.ID, team.Name); err != nil {
			a.logger.WarnContext(ctx, "configure team category failed", "team_id", team.ID, "name", team.Name, "error", err)
		}
	}
}

func (a *App) NewHTTPServer() (*http.Server, error) {
	handler := httpapi.NewHandler(a.SyncManager, a.Satellites, a.Taxonomy, a.ErrorLogs, a.Client, a.logger)
	router := httpapi.NewRouter(handler, a.logger, a.cfg.CORSAllowedOrigins, a.cfg.InternalJobToken)

	server := &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func syncTeams(teams []config.SyncTeam) []syncstate.TeamConfig {
	out := make([]syncstate.TeamConfig, 0, len(teams))
	for _, team := range teams {
		out = append(out, syncstate.TeamConfig{TeamID: team.ID, TeamName: team.Name})
	}
	return out
}
