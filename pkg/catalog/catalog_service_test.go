package catalog

import (
	"context"
	"fmt"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (CatalogService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Tag{}, &entities.Ingredient{}))
	return NewCatalogService(NewCatalogRepository(db)), db
}

func TestGetTagsSortedByName(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&[]entities.Tag{
		{ID: uuid.New(), Name: "Dinner", Color: "#49B64E", Slug: "dinner"},
		{ID: uuid.New(), Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	}).Error)

	tags, err := service.GetTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)
	assert.Equal(t, "Dinner", tags[1].Name)
}

func TestGetTagByID(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	tag := entities.Tag{ID: uuid.New(), Name: "Dinner", Color: "#49B64E", Slug: "dinner"}
	require.NoError(t, db.Create(&tag).Error)

	res, err := service.GetTagByID(ctx, tag.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "dinner", res.Slug)

	_, err = service.GetTagByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}

func TestGetIngredientsPrefixSearch(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&[]entities.Ingredient{
		{ID: uuid.New(), Name: "Sugar", MeasurementUnit: "g"},
		{ID: uuid.New(), Name: "Salt", MeasurementUnit: "g"},
		{ID: uuid.New(), Name: "Pepper", MeasurementUnit: "g"},
	}).Error)

	all, err := service.GetIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	matched, err := service.GetIngredients(ctx, "Su")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Sugar", matched[0].Name)

	none, err := service.GetIngredients(ctx, "Basil")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetIngredientByID(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	ingredient := entities.Ingredient{ID: uuid.New(), Name: "Sugar", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&ingredient).Error)

	res, err := service.GetIngredientByID(ctx, ingredient.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "g", res.MeasurementUnit)

	_, err = service.GetIngredientByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
}
