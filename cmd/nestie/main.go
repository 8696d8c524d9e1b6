package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/nestieai/nestie/internal/analysis"
	"github.com/nestieai/nestie/internal/chat"
	"github.com/nestieai/nestie/internal/config"
	"github.com/nestieai/nestie/internal/docs"
	"github.com/nestieai/nestie/internal/embeddings"
	"github.com/nestieai/nestie/internal/index"
	"github.com/nestieai/nestie/internal/llm"
	"github.com/nestieai/nestie/internal/logger"
	"github.com/nestieai/nestie/internal/server"
	"github.com/nestieai/nestie/internal/slackbot"
	"github.com/nestieai/nestie/internal/version"
)

const (
	defaultLLMTimeout    = 60 * time.Second
	defaultEmbedTimeout  = 30 * time.Second
	defaultQdrantTimeout = 10 * time.Second

	// askTimeout bounds one question end to end (retrieval plus generation).
	askTimeout = 2 * time.Minute

	// startTimeout covers first-run ingestion, which embeds every chunk of
	// every document before the app is up; fx's 15-second default is far too
	// tight for that.
	startTimeout = 15 * time.Minute
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "nestie",
		Short: "Slack assistant answering questions over company documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			run()
			return nil
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.toml")
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.GetInfo())
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() {
	fx.New(
		fx.StartTimeout(startTimeout),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideDocuments,
			provideEmbedder,
			provideStore,
			provideIndexService,
			provideLLMClient,
			provideChatService,
			chat.NewHub,
			provideSummarizer,
			slackbot.New,
			provideServer,
		),
		fx.Invoke(
			startIndexing,
			startBot,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDocuments(log *slog.Logger, cfg config.Config) *docs.Set {
	return docs.LoadSet(log, cfg.Documents)
}

func provideEmbedder(log *slog.Logger, cfg config.Config) (*embeddings.Client, error) {
	timeout := secondsOrDefault(cfg.Embeddings.TimeoutSeconds, defaultEmbedTimeout)
	return embeddings.NewClient(log, cfg.EmbeddingsAPIKey(), cfg.EmbeddingsBaseURL(),
		cfg.Embeddings.Model, cfg.Embeddings.Dimensions, timeout)
}

func provideStore(log *slog.Logger, cfg config.Config) (*index.QdrantStore, error) {
	timeout := secondsOrDefault(cfg.Qdrant.TimeoutSeconds, defaultQdrantTimeout)
	return index.NewQdrantStore(log, cfg.Qdrant.BaseURL, cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection, cfg.Embeddings.Dimensions, timeout)
}

func provideIndexService(log *slog.Logger, embedder *embeddings.Client, store *index.QdrantStore) *index.Service {
	return index.NewService(log, embedder, store)
}

func provideLLMClient(log *slog.Logger, cfg config.Config) (*llm.Client, error) {
	timeout := secondsOrDefault(cfg.LLM.TimeoutSeconds, defaultLLMTimeout)
	return llm.NewClient(log, cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model,
		cfg.LLM.Temperature, timeout)
}

func provideChatService(log *slog.Logger, cfg config.Config, set *docs.Set, indexSvc *index.Service, client *llm.Client) *chat.Service {
	return chat.NewService(log, indexSvc, client, set.Names(),
		cfg.Index.RetrievalK, cfg.Chat.MaxHistory, askTimeout)
}

func provideSummarizer(log *slog.Logger, client *llm.Client) *analysis.Summarizer {
	return analysis.NewSummarizer(log, client)
}

func provideServer(log *slog.Logger, cfg config.Config, svc *chat.Service, hub *chat.Hub) *server.Server {
	return server.NewServer(log, cfg.Server.Addr, svc, hub)
}

func startIndexing(lc fx.Lifecycle, cfg config.Config, set *docs.Set, indexSvc *index.Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			chunker := docs.NewChunker(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
			return indexSvc.Setup(ctx, set, chunker)
		},
	})
}

func startBot(lc fx.Lifecycle, bot *slackbot.Bot) {
	lc.Append(fx.Hook{
		OnStart: bot.Start,
		OnStop:  bot.Stop,
	})
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	fmt.Printf("Starting Nestie %s\n", version.GetInfo())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}

func secondsOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
