package bootstrap

import (
	"context"
	"fmt"
	"log"

	"parent-assistant-be/internal/config"
	"parent-assistant-be/internal/controller"
	"parent-assistant-be/internal/handler"
	"parent-assistant-be/internal/pkg/logger"
	"parent-assistant-be/internal/repository/contract"
	"parent-assistant-be/internal/repository/implementation"
	"parent-assistant-be/internal/repository/memory"
	redisRepo "parent-assistant-be/internal/repository/redis"
	"parent-assistant-be/internal/repository/unitofwork"
	"parent-assistant-be/internal/service"
	"parent-assistant-be/internal/websocket"
	"parent-assistant-be/pkg/embedding"
	"parent-assistant-be/pkg/events"
	"parent-assistant-be/pkg/llm/factory"
	pktNats "parent-assistant-be/pkg/nats"
	"parent-assistant-be/pkg/news"
	"parent-assistant-be/pkg/rag/compress"
	"parent-assistant-be/pkg/rag/history"
	"parent-assistant-be/pkg/rag/intent"
	"parent-assistant-be/pkg/rag/levels"
	"parent-assistant-be/pkg/rag/response"
	"parent-assistant-be/pkg/rag/search"
	"parent-assistant-be/pkg/rag/session"
	"parent-assistant-be/pkg/rag/state"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssistantController  controller.IAssistantController
	SessionSocketHandler *handler.SessionSocketHandler

	// Services
	AssistantService service.IAssistantService
	KnowledgeService service.IKnowledgeService
	Sessions         *session.Manager

	// Background Services (Exposed for main.go to run)
	ConsumerService     service.IConsumerService
	NotificationService *service.NotificationService

	WebSocketHub *websocket.Hub
	Logger       logger.ILogger

	closers []func()
}

// NewContainer wires every collaborator. db may be nil when
// VECTOR_BACKEND=memory; transcripts are then only logged.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	traceLogger := logger.NewIsolatedLogger(cfg.App.LLMLogFilePath)
	c.Logger = sysLogger

	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	}

	// 2. AI Providers
	llmKey := cfg.Keys.GoogleAPIKey
	if cfg.Ai.LLMProvider == "huggingface" {
		llmKey = cfg.Keys.HuggingFace
	}
	llmProvider, err := factory.NewLLMProvider(ctx, factory.Settings{
		Provider:    cfg.Ai.LLMProvider,
		Model:       cfg.Ai.LLMModel,
		Temperature: cfg.Ai.Temperature,
		APIKey:      llmKey,
		BaseURL:     cfg.Ai.OllamaBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	embeddingModel := cfg.Ai.EmbeddingModel
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingModel = cfg.Ai.OllamaModel
	}
	embeddingProvider, err := embedding.NewProvider(ctx, cfg.Ai.EmbeddingProvider, cfg.Keys.GoogleAPIKey, embeddingModel, cfg.Ai.OllamaBaseURL)
	if err != nil {
		return nil, fmt.Errorf("init embedding provider: %w", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, embeddingModel)

	// 3. Infrastructure
	rdb := connectRedis(ctx, cfg.App.RedisURL)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	var turnStore history.TurnStore
	switch cfg.Assistant.MemoryBackend {
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("MEMORY_BACKEND=redis but redis at %s is unreachable", cfg.App.RedisURL)
		}
		turnStore = redisRepo.NewTurnRepository(rdb, cfg.Assistant.SessionTTL)
	default:
		turnStore = memory.NewTurnRepository(cfg.Assistant.SessionTTL)
	}

	var knowledgeIndex contract.KnowledgeIndex
	if cfg.Assistant.VectorBackend == "memory" || db == nil {
		knowledgeIndex = memory.NewKnowledgeRepository()
	} else {
		knowledgeIndex = implementation.NewKnowledgeChunkRepository(db)
	}

	// Event Bus
	eventPublisher, natsSub := connectEvents(cfg)
	if closer, ok := eventPublisher.(*pktNats.Publisher); ok {
		c.closers = append(c.closers, closer.Close)
	}
	if natsSub != nil {
		c.closers = append(c.closers, natsSub.Close)
	}

	// Transcript queue
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	publisherService := service.NewPublisherService(service.TranscriptTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, service.TranscriptTopic, uowFactory, sysLogger)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)
	go c.WebSocketHub.Run()

	// 4. Knowledge
	c.KnowledgeService = service.NewKnowledgeService(knowledgeIndex, uowFactory, embeddingProvider, sysLogger)
	if _, inMemory := knowledgeIndex.(*memory.KnowledgeRepository); inMemory {
		seeded, err := c.KnowledgeService.Seed(ctx, cfg.Assistant.ChunksDir)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Seeding in-memory knowledge failed", map[string]interface{}{"error": err.Error()})
		} else {
			sysLogger.Info("Bootstrap", "In-memory knowledge ready", map[string]interface{}{"levels": seeded})
		}
	}

	// 5. Assistant Pipeline
	var newsSource news.Source = news.Disabled{}
	if cfg.Assistant.NewsEnabled {
		newsSource = news.NewScraper(cfg.Assistant.NewsBaseURL, cfg.Assistant.NewsTimeout, sysLogger)
	}

	pipeline := &session.Pipeline{
		Classifier: intent.NewClassifier(llmProvider, sysLogger, cfg.Assistant.ClassifierHistoryWindow, cfg.Ai.CallTimeout),
		Detector:   levels.NewDetector(llmProvider, sysLogger, cfg.Ai.CallTimeout),
		Gateway: search.NewGateway(
			search.NewEmbeddingSearcher(embeddingProvider, c.KnowledgeService, cfg.Ai.CallTimeout),
			sysLogger,
			cfg.Assistant.RetrievalK,
		),
		News:        newsSource,
		NewsTimeout: cfg.Assistant.NewsTimeout,
		Composer: response.NewGenerator(llmProvider, sysLogger, traceLogger, response.Config{
			HistoryWindow: cfg.Assistant.HistoryWindow,
			Temperature:   cfg.Ai.Temperature,
			Timeout:       cfg.Ai.CallTimeout,
		}),
		States: state.NewManager(sysLogger),
		Contact: response.Contact{
			Phone:   cfg.Assistant.ContactPhone,
			Email:   cfg.Assistant.ContactEmail,
			Website: cfg.Assistant.ContactWebsite,
		},
		Compression: compress.Config{
			Enabled:      cfg.Assistant.CompressEnabled,
			MaxChunks:    cfg.Assistant.CompressMaxChunks,
			MaxSentences: cfg.Assistant.CompressMaxSentences,
		},
		Logger:   sysLogger,
		Observer: service.NewTranscriptObserver(publisherService, eventPublisher, sysLogger),
	}
	c.Sessions = session.NewManager(pipeline, turnStore, cfg.Assistant.SessionTTL)

	// 6. Services
	c.AssistantService = service.NewAssistantService(
		c.Sessions,
		c.KnowledgeService,
		eventPublisher,
		cfg.Keys.JWTSecret,
		cfg.Assistant.SessionTTL,
		sysLogger,
	)

	// Notification System
	if natsSub != nil {
		c.NotificationService = service.NewNotificationService(natsSub, c.WebSocketHub, wsLogger)
	} else {
		c.NotificationService = service.NewNotificationService(nil, c.WebSocketHub, wsLogger)
		if local, ok := eventPublisher.(*events.Local); ok {
			local.Subscribe(c.NotificationService.Handle)
		}
	}

	// 7. Controllers
	c.AssistantController = controller.NewAssistantController(c.AssistantService, cfg.Keys.JWTSecret)
	c.SessionSocketHandler = handler.NewSessionSocketHandler(c.AssistantService, c.WebSocketHub, cfg.Keys.JWTSecret, wsLogger)

	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}

func connectRedis(ctx context.Context, url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// connectEvents returns the NATS publisher and subscriber, or an in-process
// bus when events are disabled or NATS is unreachable.
func connectEvents(cfg *config.Config) (events.Publisher, *pktNats.Subscriber) {
	if !cfg.App.EventsEnabled {
		return events.NewLocal(), nil
	}

	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		return events.NewLocal(), nil
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsPub.Close()
		return events.NewLocal(), nil
	}
	return natsPub, natsSub
}
