package app

import (
	"context"
	"fmt"
	"time"

	"alfred/internal/config"
	"alfred/internal/database"
	"alfred/internal/database/migration"
	dbpostgres "alfred/internal/database/postgres"
	"alfred/internal/domain/matching"
	"alfred/internal/domain/member"
	"alfred/internal/infrastructure/cache"
	"alfred/internal/infrastructure/clickup"
	"alfred/internal/infrastructure/discord"
	"alfred/internal/infrastructure/google"
	"alfred/internal/infrastructure/llm"
	"alfred/internal/logger"
	"alfred/internal/pkg/jwt"
	"alfred/internal/repository"
	"alfred/internal/repository/memory"
	"alfred/internal/usecase"
	"alfred/internal/ws"
	"alfred/migrations"

	"go.uber.org/zap"
)

// Container owns every long-lived dependency of the service.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub
	JWT   *jwt.HMACService

	Members    usecase.MemberStore
	Requests   usecase.OnboardingStore
	Onboarding *usecase.Onboarding
	Assignment *usecase.Assignment
	MemberUC   *usecase.Members
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	log = logger.OrNop(log)
	c := &Container{
		Config: cfg,
		Logger: log,
		JWT:    jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.ExpiresIn),
		Hub:    ws.NewHub(log),
	}

	if err := c.initStores(ctx); err != nil {
		return nil, err
	}

	engine, err := NewEngine(cfg.Scoring)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Cache = cache.NewRedis(ctx, cfg.Redis, log)
	collab := c.initCollaborators(ctx)

	c.Onboarding = usecase.NewOnboardingUsecase(usecase.OnboardingDeps{
		Requests:              c.Requests,
		Members:               c.Members,
		Docs:                  collab.docs,
		Roster:                collab.roster,
		Chat:                  collab.chat,
		Composer:              collab.composer,
		Rankings:              c.Cache,
		Events:                ws.NewPublisher(c.Hub),
		Logger:                log,
		DefaultAvailableHours: cfg.Onboarding.DefaultAvailableHours,
	})
	c.Assignment = usecase.NewAssignmentUsecase(usecase.AssignmentDeps{
		Members:  c.Members,
		Engine:   engine,
		Workload: collab.workload,
		Cache:    c.Cache,
		CacheTTL: cfg.Redis.RankTTL,
		Logger:   log,
	})
	c.MemberUC = usecase.NewMembersUsecase(c.Members, c.Cache, log)

	return c, nil
}

func (c *Container) initStores(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		c.Logger.Warn("DB_HOST not set, using in-memory stores")
		c.Members = memory.NewMemberStore()
		c.Requests = memory.NewOnboardingStore()
		return nil
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := dbpostgres.Connect(connCtx, c.Config.Database, c.Logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	c.DB = pool

	if err := RunMigrations(ctx, pool, c.Config.Database.MigrationsDir, c.Logger); err != nil {
		_ = pool.Close()
		return err
	}

	c.Members = repository.NewPostgresMemberRepository(pool)
	c.Requests = repository.NewPostgresOnboardingRepository(pool)
	return nil
}

// RunMigrations applies the embedded schema, or the files in dir when set.
func RunMigrations(ctx context.Context, db database.DB, dir string, log *zap.Logger) error {
	r := migration.Runner{Logger: log}
	if dir != "" {
		r.Dir = dir
	} else {
		r.FS = migrations.Files
	}
	if err := r.Run(ctx, db.SQLDB()); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// NewEngine builds the scoring engine from configuration. Level names missing
// from cfg keep their default weight.
func NewEngine(cfg config.ScoringConfig) (*matching.Engine, error) {
	ec := matching.DefaultConfig()
	ec.Weights = matching.Weights{Skill: cfg.SkillWeight, Availability: cfg.AvailabilityWeight}
	for name, w := range cfg.LevelWeights {
		lvl, err := member.ParseLevel(name)
		if err != nil {
			return nil, err
		}
		ec.LevelWeights[lvl] = w
	}
	return matching.NewEngine(ec)
}

type collaborators struct {
	docs     usecase.DocGenerator
	roster   usecase.RosterSheet
	chat     usecase.NotificationChannel
	composer usecase.MessageComposer
	workload usecase.WorkloadProvider
}

// initCollaborators wires each external service that is configured. A
// missing one leaves its interface nil so the matching onboarding step
// reports "not configured" instead of failing startup.
func (c *Container) initCollaborators(ctx context.Context) collaborators {
	cfg := c.Config
	var out collaborators

	if cfg.Discord.BotToken != "" {
		cl, err := discord.NewClient(cfg.Discord, c.Logger)
		if err != nil {
			c.Logger.Warn("discord disabled", zap.Error(err))
		} else {
			out.chat = cl
		}
	}

	if cfg.Google.CredentialsFile != "" {
		opts := google.ClientOptions(cfg.Google)
		if docs, err := google.NewDocs(ctx, opts...); err != nil {
			c.Logger.Warn("google docs disabled", zap.Error(err))
		} else {
			out.docs = docs
		}
		if cfg.Google.RosterSpreadsheetID != "" {
			if roster, err := google.NewRoster(ctx, cfg.Google.RosterSpreadsheetID, opts...); err != nil {
				c.Logger.Warn("google sheets disabled", zap.Error(err))
			} else {
				out.roster = roster
			}
		}
	}

	if cfg.Gemini.APIKey != "" {
		comp, err := llm.NewWelcomeComposer(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			c.Logger.Warn("gemini composer disabled, using welcome template", zap.Error(err))
		} else {
			out.composer = comp
		}
	}

	if cfg.ClickUp.APIToken != "" {
		wl, err := clickup.NewWorkload(cfg.ClickUp, c.Logger)
		if err != nil {
			c.Logger.Warn("clickup workload disabled", zap.Error(err))
		} else {
			out.workload = wl
		}
	}

	c.Logger.Info("collaborators configured",
		zap.Bool("chat", out.chat != nil),
		zap.Bool("docs", out.docs != nil),
		zap.Bool("roster", out.roster != nil),
		zap.Bool("composer", out.composer != nil),
		zap.Bool("workload", out.workload != nil),
	)
	return out
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
