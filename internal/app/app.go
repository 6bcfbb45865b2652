package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis"
	"github.com/humanbelnik/pollcast/core/internal/config"
	http_cursor "github.com/humanbelnik/pollcast/core/internal/delivery/http/cursor"
	http_init "github.com/humanbelnik/pollcast/core/internal/delivery/http/init"
	http_access_middleware "github.com/humanbelnik/pollcast/core/internal/delivery/http/middleware/access"
	http_presentation "github.com/humanbelnik/pollcast/core/internal/delivery/http/presentation"
	http_response "github.com/humanbelnik/pollcast/core/internal/delivery/http/response"
	http_swagger "github.com/humanbelnik/pollcast/core/internal/delivery/http/swagger"
	ws_presentation "github.com/humanbelnik/pollcast/core/internal/delivery/ws/presentation"
	infra_postgres_audience "github.com/humanbelnik/pollcast/core/internal/infra/postgres/audience"
	infra_pg_init "github.com/humanbelnik/pollcast/core/internal/infra/postgres/init"
	infra_postgres_presentation "github.com/humanbelnik/pollcast/core/internal/infra/postgres/presentation"
	infra_postgres_response "github.com/humanbelnik/pollcast/core/internal/infra/postgres/response"
	infra_redis_init "github.com/humanbelnik/pollcast/core/internal/infra/redis/init"
	infra_redis_owner "github.com/humanbelnik/pollcast/core/internal/infra/redis/owner"
	infra_redis_relay "github.com/humanbelnik/pollcast/core/internal/infra/redis/relay"
	infra_session_cache "github.com/humanbelnik/pollcast/core/internal/infra/redis/session"
	infra_sqlite_init "github.com/humanbelnik/pollcast/core/internal/infra/sqlite/init"
	"github.com/humanbelnik/pollcast/core/internal/model"
	service_dispatcher "github.com/humanbelnik/pollcast/core/internal/service/dispatcher"
	service_presenter_auth "github.com/humanbelnik/pollcast/core/internal/service/presenter_auth"
	usecase_aggregation "github.com/humanbelnik/pollcast/core/internal/usecase/aggregation"
	usecase_cursor "github.com/humanbelnik/pollcast/core/internal/usecase/cursor"
	usecase_ingestion "github.com/humanbelnik/pollcast/core/internal/usecase/ingestion"
	usecase_presentation "github.com/humanbelnik/pollcast/core/internal/usecase/presentation"
	"github.com/jmoiron/sqlx"
)

const sessionPrefix = "presenter_session"

type publisher interface {
	Publish(topic string, event model.Event)
}

// App is the wired service. Build it with New, serve it with Run.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	db    *sqlx.DB
	redis *redis.Client

	hub    *service_dispatcher.Hub
	relay  *infra_redis_relay.Relay
	lease  *infra_redis_owner.Lease
	wsHub  *ws_presentation.Hub
	routes *http_init.ControllerPool
}

type Option func(*App)

func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithRedis enables presenter sessions, and the relay when the broadcast mode
// asks for it.
func WithRedis(client *redis.Client) Option {
	return func(a *App) {
		a.redis = client
	}
}

func Go(cfg *config.Config) {
	logger := NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if cfg.Auth.Secret == config.DefaultPresenterSecret {
		logger.Warn("PRESENTER_SECRET is not set, read-only instance uses the default")
	}

	db := mustOpenStorage(cfg)
	defer db.Close()

	opts := []Option{WithLogger(logger)}
	if cfg.Redis.Enabled {
		redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
		defer redisConn.Close()
		opts = append(opts, WithRedis(redisConn))
	}

	a, err := New(cfg, db, opts...)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		logger.Error("app stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func mustOpenStorage(cfg *config.Config) *sqlx.DB {
	switch cfg.Storage.Driver {
	case "sqlite":
		return infra_sqlite_init.MustEstablishConn(cfg.SQLite)
	case "postgres":
		return infra_pg_init.MustEstablishConn(cfg.Postgres)
	}
	log.Fatalf("unknown storage driver %q", cfg.Storage.Driver)
	return nil
}

// NewLogger builds the process logger from the log section of the config.
func NewLogger(cfg config.Log, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// New wires repositories on db, the in-memory core and every controller.
func New(cfg *config.Config, db *sqlx.DB, opts ...Option) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: slog.Default(),
		db:     db,
	}
	for _, opt := range opts {
		opt(a)
	}

	if cfg.HTTP.Mode == http_access_middleware.ModeReadOnly {
		a.logger.Info("running in read-only mode")
	}

	presentationRepository := infra_postgres_presentation.New(db)
	audienceRepository := infra_postgres_audience.New(db)
	responseRepository := infra_postgres_response.New(db)

	a.hub = service_dispatcher.New(
		service_dispatcher.WithBuffer(cfg.Broadcast.Buffer),
		service_dispatcher.WithLogger(a.logger),
	)
	storeOpts := []usecase_aggregation.Option{
		usecase_aggregation.WithLimits(usecase_aggregation.Limits{
			MaxWordLength: cfg.Aggregation.MaxWordLength,
			MaxTextLength: cfg.Aggregation.MaxTextLength,
		}),
		usecase_aggregation.WithLogger(a.logger),
	}

	var pub publisher = a.hub
	switch cfg.Broadcast.Mode {
	case "local", "":
	case "redis":
		if a.redis == nil {
			return nil, errors.New("broadcast mode redis needs REDIS_HOST")
		}
		a.relay = infra_redis_relay.New(a.redis, a.hub,
			infra_redis_relay.WithChannelPrefix(cfg.Broadcast.ChannelPrefix),
			infra_redis_relay.WithLogger(a.logger),
		)
		pub = a.relay

		// Boards are not shared, so each presentation is served by one instance.
		a.lease = infra_redis_owner.New(a.redis,
			infra_redis_owner.WithPrefix(cfg.Broadcast.ChannelPrefix+"owner"),
			infra_redis_owner.WithTTL(cfg.Broadcast.OwnerTTL),
			infra_redis_owner.WithLogger(a.logger),
		)
		storeOpts = append(storeOpts, usecase_aggregation.WithOwnership(a.lease))
	default:
		return nil, fmt.Errorf("unknown broadcast mode %q", cfg.Broadcast.Mode)
	}

	authOpts := []service_presenter_auth.Option{service_presenter_auth.WithTTL(cfg.Auth.TTL)}
	if a.redis != nil {
		sessionCache := infra_session_cache.New(a.redis, sessionPrefix)
		authOpts = append(authOpts, service_presenter_auth.WithSessionCache(sessionCache))
	}
	authService := service_presenter_auth.New(cfg.Auth.Secret, authOpts...)

	store := usecase_aggregation.New(presentationRepository, responseRepository, storeOpts...)

	cursorUC := usecase_cursor.New(store, pub, usecase_cursor.WithLogger(a.logger))
	ingestionUC := usecase_ingestion.New(store, pub, responseRepository, usecase_ingestion.WithLogger(a.logger))
	presentationUC := usecase_presentation.New(presentationRepository, audienceRepository, authService, store, pub,
		usecase_presentation.WithLogger(a.logger))

	a.wsHub = ws_presentation.NewHub(a.logger)

	a.routes = http_init.NewControllerPool(
		http_init.WithLogger(a.logger),
		http_init.WithMiddleware(http_access_middleware.ReadOnly(cfg.HTTP.Mode)),
	)
	a.routes.Add(http_swagger.New())
	a.routes.Add(http_presentation.New(presentationUC, ingestionUC, authService, http_presentation.WithLogger(a.logger)))
	a.routes.Add(http_response.New(ingestionUC, http_response.WithLogger(a.logger)))
	a.routes.Add(http_cursor.New(cursorUC, authService, http_cursor.WithLogger(a.logger)))
	a.routes.Add(ws_presentation.New(a.wsHub, a.hub, ingestionUC, cursorUC, authService,
		ws_presentation.WithLogger(a.logger),
		ws_presentation.WithReadOnly(cfg.HTTP.Mode == http_access_middleware.ModeReadOnly),
	))
	a.routes.Register()

	return a, nil
}

func (a *App) Handler() http.Handler {
	return a.routes.Handler()
}

// Run serves HTTP, and relays Redis events and renews presentation leases
// when enabled, until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.relay != nil {
		go func() {
			if err := a.relay.Run(ctx); err != nil && ctx.Err() == nil {
				a.logger.Error("redis relay stopped", slog.String("error", err.Error()))
				cancel()
			}
		}()
	}

	if a.lease != nil {
		a.logger.Info("serving presentations as", "instance", a.lease.Instance())
		go a.lease.Run(ctx)
	}

	addr := net.JoinHostPort(a.cfg.HTTP.Host, a.cfg.HTTP.Port)
	err := a.routes.RunAll(ctx, addr, a.cfg.HTTP.ShutdownTimeout)
	a.Close()
	return err
}

// Close disconnects websocket clients, hands held presentations back and
// stops the dispatcher.
func (a *App) Close() {
	a.wsHub.Close()
	if a.lease != nil {
		if err := a.lease.Close(); err != nil {
			a.logger.Warn("failed to release presentations", slog.String("error", err.Error()))
		}
	}
	a.hub.Close()
}
