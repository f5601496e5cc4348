package shoppinglist

import (
	"context"
	"fmt"
	"testing"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/user"

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
	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.IngredientLine{},
		&entities.ShoppingCart{},
	))
	return db
}

func newService(db *gorm.DB) ShoppingListService {
	return NewShoppingListService(NewShoppingListRepository(db), user.NewUserRepository(db))
}

func seedRecipe(t *testing.T, db *gorm.DB, authorID uuid.UUID, lines map[uuid.UUID]int) uuid.UUID {
	t.Helper()

	recipeID := uuid.New()
	require.NoError(t, db.Create(&entities.Recipe{
		ID: recipeID, AuthorID: authorID, Name: "r-" + recipeID.String()[:8],
		CookingTime: 10, CreatedAt: time.Now(),
	}).Error)
	for ingredientID, amount := range lines {
		require.NoError(t, db.Create(&entities.IngredientLine{
			ID: uuid.New(), RecipeID: recipeID, IngredientID: ingredientID, Amount: amount,
		}).Error)
	}
	return recipeID
}

func addToCart(t *testing.T, db *gorm.DB, userID, recipeID uuid.UUID) {
	t.Helper()
	require.NoError(t, db.Create(&entities.ShoppingCart{
		ID: uuid.New(), UserID: userID, RecipeID: recipeID, CreatedAt: time.Now(),
	}).Error)
}

func TestBuildReportAggregatesAcrossRecipes(t *testing.T) {
	db := newTestDB(t)
	service := newService(db)
	ctx := context.Background()

	owner := entities.User{ID: uuid.New(), Email: "kate@example.com", Username: "kate", Password: "x"}
	require.NoError(t, db.Create(&owner).Error)

	flour := entities.Ingredient{ID: uuid.New(), Name: "Flour", MeasurementUnit: "g"}
	sugar := entities.Ingredient{ID: uuid.New(), Name: "Sugar", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&flour).Error)
	require.NoError(t, db.Create(&sugar).Error)

	pancakes := seedRecipe(t, db, owner.ID, map[uuid.UUID]int{flour.ID: 100, sugar.ID: 30})
	bread := seedRecipe(t, db, owner.ID, map[uuid.UUID]int{flour.ID: 50})

	addToCart(t, db, owner.ID, pancakes)
	addToCart(t, db, owner.ID, bread)

	report, err := service.BuildReport(ctx, owner.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "kate_shopping_list.txt", report.Filename)
	assert.Equal(t, "Shopping list:\nFlour (g) - 150\nSugar (g) - 30", report.Content)
}

func TestBuildReportGroupsByUnit(t *testing.T) {
	db := newTestDB(t)
	service := newService(db)
	ctx := context.Background()

	owner := entities.User{ID: uuid.New(), Email: "kate@example.com", Username: "kate", Password: "x"}
	require.NoError(t, db.Create(&owner).Error)

	// Same name, different unit: kept as separate lines.
	saltG := entities.Ingredient{ID: uuid.New(), Name: "Salt", MeasurementUnit: "g"}
	saltTsp := entities.Ingredient{ID: uuid.New(), Name: "Salt", MeasurementUnit: "tsp"}
	require.NoError(t, db.Create(&saltG).Error)
	require.NoError(t, db.Create(&saltTsp).Error)

	recipeID := seedRecipe(t, db, owner.ID, map[uuid.UUID]int{saltG.ID: 5, saltTsp.ID: 1})
	addToCart(t, db, owner.ID, recipeID)

	report, err := service.BuildReport(ctx, owner.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Shopping list:\nSalt (g) - 5\nSalt (tsp) - 1", report.Content)
}

func TestBuildReportOnlyOwnCart(t *testing.T) {
	db := newTestDB(t)
	service := newService(db)
	ctx := context.Background()

	kate := entities.User{ID: uuid.New(), Email: "kate@example.com", Username: "kate", Password: "x"}
	mark := entities.User{ID: uuid.New(), Email: "mark@example.com", Username: "mark", Password: "x"}
	require.NoError(t, db.Create(&kate).Error)
	require.NoError(t, db.Create(&mark).Error)

	flour := entities.Ingredient{ID: uuid.New(), Name: "Flour", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&flour).Error)

	recipeID := seedRecipe(t, db, kate.ID, map[uuid.UUID]int{flour.ID: 100})
	addToCart(t, db, mark.ID, recipeID)

	// Kate's cart is empty even though her recipe sits in Mark's cart.
	_, err := service.BuildReport(ctx, kate.ID.String())
	assert.ErrorIs(t, err, domain.ErrShoppingCartEmpty)

	report, err := service.BuildReport(ctx, mark.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "mark_shopping_list.txt", report.Filename)
}

func TestBuildReportEmptyCart(t *testing.T) {
	db := newTestDB(t)
	service := newService(db)

	owner := entities.User{ID: uuid.New(), Email: "kate@example.com", Username: "kate", Password: "x"}
	require.NoError(t, db.Create(&owner).Error)

	_, err := service.BuildReport(context.Background(), owner.ID.String())
	assert.ErrorIs(t, err, domain.ErrShoppingCartEmpty)
}

func TestBuildReportUnknownUser(t *testing.T) {
	db := newTestDB(t)
	service := newService(db)

	_, err := service.BuildReport(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
