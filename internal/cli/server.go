package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brainrot-quiz-service/internal/app"
	"brainrot-quiz-service/internal/audio"
	"brainrot-quiz-service/internal/config"
	"brainrot-quiz-service/internal/infra/memory"
	pgstore "brainrot-quiz-service/internal/infra/postgres"
	redisstore "brainrot-quiz-service/internal/infra/redis"
	"brainrot-quiz-service/internal/logger"
	"brainrot-quiz-service/internal/observe"
	transport "brainrot-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Game.Validate(); err != nil {
		return err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	metrics, shutdownMetrics, err := observe.InitProvider()
	if err != nil {
		return err
	}
	defer shutdownMetrics(context.Background())

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.CharacterLoader = memory.NewStaticCharacterLoader(memory.DefaultCharacters())
	if pool != nil {
		pgLoader := pgstore.NewCharacterLoader(pool)
		if err := pgLoader.Seed(ctx, memory.DefaultCharacters()); err != nil {
			return err
		}
		loader = pgLoader
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalog app.CatalogRepository
	if redisClient != nil {
		catalog = redisstore.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalog = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var sessions app.SessionRepository = memory.NewSessionStore()
	if redisClient != nil {
		sessions = redisstore.NewSessionStore(redisClient, redisTTL)
	}

	// Postgres is the durable home for shared data; Redis serves when it is the only backend.
	var (
		remoteRankings  app.RankingStore
		remoteLikes     app.LikeStore
		remoteGuestbook app.GuestbookStore
		pulls           app.PullStore = memory.NewPullStore()
	)
	switch {
	case pool != nil:
		remoteRankings = pgstore.NewRankingStore(pool)
		remoteLikes = pgstore.NewLikeStore(pool)
		remoteGuestbook = pgstore.NewGuestbookStore(pool)
	case redisClient != nil:
		remoteRankings = redisstore.NewRankingStore(redisClient)
		remoteLikes = redisstore.NewLikeStore(redisClient)
		remoteGuestbook = redisstore.NewGuestbookStore(redisClient)
	}
	if redisClient != nil {
		pulls = redisstore.NewPullStore(redisClient)
	}

	board := app.NewLeaderboard(memory.NewRankingStore(), remoteRankings, log.Named("leaderboard"), metrics)
	game := app.NewGameService(sessions, catalog, board, cfg.Game,
		app.WithLogger(log.Named("game")),
		app.WithMetrics(metrics),
	)
	social := app.NewSocialService(catalog, app.SocialStores{
		Likes:          remoteLikes,
		LocalLikes:     memory.NewLikeStore(),
		Guestbook:      remoteGuestbook,
		LocalGuestbook: memory.NewGuestbookStore(),
	}, log.Named("social"), metrics)
	fortune := app.NewFortuneService(catalog, pulls, cfg.Fortune.DailyPulls, log.Named("fortune"))

	sources := []audio.Source{
		audio.NewExactFileSource(cfg.Audio.Dir),
		audio.NewNormalizedFileSource(cfg.Audio.Dir),
	}
	if cfg.Audio.ElevenLabsKey != "" {
		tts, err := audio.NewElevenLabs(cfg.Audio.ElevenLabsKey,
			audio.WithVoice(cfg.Audio.ElevenLabsVoice),
			audio.WithModel(cfg.Audio.ElevenLabsModel),
			audio.WithBaseURL(cfg.Audio.ElevenLabsAPIURL),
		)
		if err != nil {
			return err
		}
		sources = append(sources, tts)
	} else {
		log.Info("no ElevenLabs key configured, serving recorded clips only")
	}
	resolver := audio.NewResolver(log.Named("audio"), sources...)

	api := transport.NewAPIHandler(social, board, fortune, resolver, log.Named("api"))
	ws := transport.NewWSHandler(game, log.Named("ws"))

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     transport.NewRouter(api, ws),
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting quiz service", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
