package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"prompt-records/internal/core/domain"
)

// setupPostgresStore runs the same façade against the networked engine
// to prove the two engines share identical semantics
func setupPostgresStore(t *testing.T) *Store {
	if testing.Short() {
		t.Skip("skipping networked-engine test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate postgres container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(pgdriver.Open(connStr), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.Prompt{}, &domain.Record{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return NewStore(db, nil)
}

func TestStore_Postgres_InsertPromptReturnsRow(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	prompt, err := store.InsertPrompt(ctx, "Give me tax strategies")

	require.NoError(t, err)
	assert.Greater(t, prompt.ID, int64(0))
	assert.False(t, prompt.CreatedAt.IsZero())
}

func TestStore_Postgres_CascadeDelete(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	p1, err := store.InsertPrompt(ctx, "P1")
	require.NoError(t, err)
	p2, err := store.InsertPrompt(ctx, "P2")
	require.NoError(t, err)

	require.NoError(t, store.InsertRecords(ctx, []domain.Record{
		{PromptID: p1.ID, Description: "R1"},
		{PromptID: p2.ID, Description: "R2"},
	}))

	require.NoError(t, store.db.WithContext(ctx).Delete(&domain.Prompt{}, p1.ID).Error)

	records, err := store.GetAllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "R2", records[0].Description)

	require.NoError(t, store.DeleteAllPrompts(ctx))

	records, err = store.GetAllRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_Postgres_UpdateRecordSemantics(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	prompt, err := store.InsertPrompt(ctx, "prompt")
	require.NoError(t, err)
	require.NoError(t, store.InsertRecords(ctx, []domain.Record{
		{PromptID: prompt.ID, Title: strPtr("T"), Description: "text"},
	}))

	records, err := store.GetAllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	updated, err := store.UpdateRecord(ctx, records[0].ID, nil, "new text")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Nil(t, updated.Title)
	assert.Equal(t, "new text", updated.Description)

	missing, err := store.UpdateRecord(ctx, 9999, nil, "text")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
