package relation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"foodgram-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Favorite{}))
	return db
}

func newFavoriteStore(db *gorm.DB) Store[entities.Favorite] {
	return NewStore(db, "user_id", "recipe_id", func(user, target uuid.UUID) entities.Favorite {
		return entities.Favorite{ID: uuid.New(), UserID: user, RecipeID: target, CreatedAt: time.Now()}
	})
}

func TestStoreAddAndExists(t *testing.T) {
	db := newTestDB(t)
	store := newFavoriteStore(db)
	ctx := context.Background()

	user, target := uuid.New(), uuid.New()

	exists, err := store.Exists(ctx, user, target)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Add(ctx, user, target))

	exists, err = store.Exists(ctx, user, target)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStoreAddTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	store := newFavoriteStore(db)
	ctx := context.Background()

	user, target := uuid.New(), uuid.New()

	require.NoError(t, store.Add(ctx, user, target))
	assert.ErrorIs(t, store.Add(ctx, user, target), ErrAlreadyExists)
}

func TestStoreAddDuplicateRowHitsUniqueIndex(t *testing.T) {
	db := newTestDB(t)

	user, target := uuid.New(), uuid.New()

	// A row inserted behind the store's back still trips the unique index.
	require.NoError(t, db.Create(&entities.Favorite{
		ID: uuid.New(), UserID: user, RecipeID: target, CreatedAt: time.Now(),
	}).Error)

	err := db.Create(&entities.Favorite{
		ID: uuid.New(), UserID: user, RecipeID: target, CreatedAt: time.Now(),
	}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestStoreRemove(t *testing.T) {
	db := newTestDB(t)
	store := newFavoriteStore(db)
	ctx := context.Background()

	user, target := uuid.New(), uuid.New()

	require.NoError(t, store.Add(ctx, user, target))
	require.NoError(t, store.Remove(ctx, user, target))

	exists, err := store.Exists(ctx, user, target)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStoreRemoveMissingIsError(t *testing.T) {
	db := newTestDB(t)
	store := newFavoriteStore(db)
	ctx := context.Background()

	assert.ErrorIs(t, store.Remove(ctx, uuid.New(), uuid.New()), ErrNotFound)
}

func TestStoreIsolatedPerUser(t *testing.T) {
	db := newTestDB(t)
	store := newFavoriteStore(db)
	ctx := context.Background()

	alice, bob, target := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, store.Add(ctx, alice, target))

	exists, err := store.Exists(ctx, bob, target)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, store.Remove(ctx, bob, target), ErrNotFound)
}
