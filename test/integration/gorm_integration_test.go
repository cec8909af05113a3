package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"learnpulse-be/internal/entity"
	"learnpulse-be/internal/repository/specification"
	"learnpulse-be/internal/repository/unitofwork"
	"learnpulse-be/pkg/database"
	"learnpulse-be/pkg/prefstore"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ActivityRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Activity Repository", func(t *testing.T) {
		ctx := context.Background()

		user := &entity.User{
			Id:       uuid.New(),
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			FullName: "Integration Test User",
			Role:     "user",
			Status:   "active",
		}
		require.NoError(t, uow.UserRepository().Create(ctx, user))

		read := &entity.ReadActivity{
			Id:     uuid.New(),
			UserId: user.Id,
			ItemId: "article-001",
			ReadAt: time.Now(),
		}
		require.NoError(t, uow.ActivityRepository().RecordRead(ctx, read))

		count, err := uow.ActivityRepository().CountReads(ctx, user.Id,
			specification.ReadSince{Since: time.Now().Add(-7 * 24 * time.Hour)})
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, count, int64(1))

		// Saving the same item twice must stay idempotent.
		item := &entity.SavedItem{
			Id:       uuid.New(),
			UserId:   user.Id,
			ItemId:   "article-001",
			Title:    "Integration Article",
			Category: "science",
		}
		require.NoError(t, uow.ActivityRepository().SaveItem(ctx, item))
		item.Id = uuid.New()
		require.NoError(t, uow.ActivityRepository().SaveItem(ctx, item))

		saved, err := uow.ActivityRepository().CountSavedItems(ctx, user.Id)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), saved)

		// Cleanup
		assert.NoError(t, uow.ActivityRepository().RemoveSavedItem(ctx, user.Id, "article-001"))
		assert.NoError(t, uow.UserRepository().Delete(ctx, user.Id))
	})

	t.Run("Check Preference Store Roundtrip", func(t *testing.T) {
		ctx := context.Background()
		store := prefstore.NewGormStore(gormDB)

		user := &entity.User{
			Id:       uuid.New(),
			Email:    "test-prefs-" + uuid.New().String() + "@example.com",
			FullName: "Prefs Test User",
			Role:     "user",
			Status:   "active",
		}
		require.NoError(t, uow.UserRepository().Create(ctx, user))
		uid := user.Id.String()

		// Absent record surfaces as NotFound, never as a hard failure.
		_, err := store.Get(ctx, uid)
		require.Error(t, err)
		assert.True(t, prefstore.IsNotFound(err))

		minutes := 20
		saved, err := store.Save(ctx, uid, prefstore.PreferenceSet{
			Categories:          []string{"science", "custom:machine learning"},
			DailyMinutes:        &minutes,
			OnboardingCompleted: true,
		})
		require.NoError(t, err)
		assert.NotNil(t, saved.UpdatedAt)

		got, err := store.Get(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, []string{"science", "custom:machine learning"}, got.Categories)
		assert.Equal(t, 20, *got.DailyMinutes)

		// Partial update touches only the patched field.
		newMinutes := 45
		patched, err := store.Update(ctx, uid, prefstore.Patch{DailyMinutes: &newMinutes})
		require.NoError(t, err)
		assert.Equal(t, 45, *patched.DailyMinutes)
		assert.Equal(t, []string{"science", "custom:machine learning"}, patched.Categories)

		assert.NoError(t, uow.UserRepository().Delete(ctx, user.Id))
	})
}
