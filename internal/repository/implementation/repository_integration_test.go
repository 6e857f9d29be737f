package implementation_test

import (
	"context"
	"log"
	"os"
	"testing"

	"parent-assistant-be/internal/entity"
	"parent-assistant-be/internal/model"
	"parent-assistant-be/internal/repository/specification"
	"parent-assistant-be/internal/repository/unitofwork"
	"parent-assistant-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error)
	require.NoError(t, db.AutoMigrate(&model.KnowledgeChunk{}, &model.ChatTranscript{}))
	return db
}

func unitVector(axis int) []float32 {
	v := make([]float32, 768)
	v[axis] = 1
	return v
}

func TestKnowledgeChunkRepository_Integration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(db)

	level := "it-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		_ = factory.NewUnitOfWork(ctx).KnowledgeChunkRepository().DeleteByLevel(ctx, level)
	})

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	repo := uow.KnowledgeChunkRepository()
	require.NoError(t, repo.CreateBulk(ctx, []*entity.KnowledgeChunk{
		{Level: level, Title: "Servis", Content: "Servis 7:30'da kalkar.", SourceFile: "test.json", Embedding: unitVector(0)},
		{Level: level, Title: "Yemek", Content: "Öğle yemeği 12:00'de.", SourceFile: "test.json", ChunkIndex: 1, Embedding: unitVector(1)},
	}))
	require.NoError(t, uow.Commit())

	repo = factory.NewUnitOfWork(ctx).KnowledgeChunkRepository()

	t.Run("Count by level", func(t *testing.T) {
		counts, err := repo.CountByLevel(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts[level])
	})

	t.Run("Search similar", func(t *testing.T) {
		scored, err := repo.SearchSimilar(ctx, unitVector(0), 50)
		require.NoError(t, err)
		require.NotEmpty(t, scored)

		var found bool
		for _, s := range scored {
			if s.Chunk.Level == level && s.Chunk.Title == "Servis" {
				found = true
				assert.InDelta(t, 0.0, s.Distance, 1e-4)
			}
		}
		assert.True(t, found)
	})

	t.Run("Specifications", func(t *testing.T) {
		n, err := repo.Count(ctx, specification.ByLevels{Levels: []string{level}}, specification.ContentSearch{Query: "servis"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("Ordered page and lookup by id", func(t *testing.T) {
		page, err := repo.FindAll(ctx,
			specification.ByLevels{Levels: []string{level}},
			specification.OrderBy{Field: "chunk_index", Desc: true},
			specification.Pagination{Limit: 1},
		)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "Yemek", page[0].Title)

		one, err := repo.FindOne(ctx, specification.ByID{ID: page[0].Id})
		require.NoError(t, err)
		require.NotNil(t, one)
		assert.Equal(t, 1, one.ChunkIndex)
		assert.Len(t, one.Embedding, 768)
	})

	t.Run("Delete by level", func(t *testing.T) {
		require.NoError(t, repo.DeleteByLevel(ctx, level))
		n, err := repo.Count(ctx, specification.ByLevels{Levels: []string{level}})
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestChatTranscriptRepository_Integration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(db)

	sessionID := uuid.NewString()
	t.Cleanup(func() {
		db.Where("session_id = ?", sessionID).Delete(&model.ChatTranscript{})
	})

	t.Run("Rollback discards", func(t *testing.T) {
		uow := factory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.ChatTranscriptRepository().Create(ctx, &entity.ChatTranscript{
			SessionId: sessionID, ThreadId: "t-0", Query: "q", Answer: "a", Status: "ok",
		}))
		require.NoError(t, uow.Rollback())

		n, err := factory.NewUnitOfWork(ctx).ChatTranscriptRepository().Count(ctx, specification.BySessionID{SessionID: sessionID})
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Commit stores", func(t *testing.T) {
		uow := factory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.ChatTranscriptRepository().Create(ctx, &entity.ChatTranscript{
			SessionId:     sessionID,
			ThreadId:      "t-1",
			Query:         "Servis saat kaçta?",
			Answer:        "7:30",
			Label:         "question",
			Destination:   "retrieve",
			Status:        "ok",
			Levels:        []string{"lise"},
			ContextTitles: []string{"Lise Servis"},
			LatencyMs:     42,
		}))
		require.NoError(t, uow.Commit())

		stored, err := factory.NewUnitOfWork(ctx).ChatTranscriptRepository().FindAll(ctx, specification.BySessionID{SessionID: sessionID})
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, []string{"lise"}, stored[0].Levels)
		assert.Equal(t, int64(42), stored[0].LatencyMs)
	})
}
