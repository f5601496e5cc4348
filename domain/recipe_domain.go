package domain

import (
	"errors"

	"github.com/google/uuid"
)

var (
	MessageSuccessGetRecipes       = "success get recipes"
	MessageSuccessGetRecipeDetail  = "success get recipe detail"
	MessageSuccessCreateRecipe     = "recipe created successfully"
	MessageSuccessUpdateRecipe     = "recipe updated successfully"
	MessageSuccessDeleteRecipe     = "recipe deleted successfully"
	MessageSuccessFavorite         = "recipe added to favorites"
	MessageSuccessUnfavorite       = "recipe removed from favorites"
	MessageSuccessAddToCart        = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart   = "recipe removed from shopping cart"
	MessageSuccessShoppingList     = "success build shopping list"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedFavorite        = "failed to add recipe to favorites"
	MessageFailedUnfavorite      = "failed to remove recipe from favorites"
	MessageFailedAddToCart       = "failed to add recipe to shopping cart"
	MessageFailedRemoveFromCart  = "failed to remove recipe from shopping cart"
	MessageFailedShoppingList    = "failed to build shopping list"

	ErrRecipeNotFound        = errors.New("recipe not found")
	ErrNotRecipeAuthor       = errors.New("only the author can modify this recipe")
	ErrIngredientsRequired   = errors.New("field ingredients must not be empty")
	ErrTagsRequired          = errors.New("field tags must not be empty")
	ErrDuplicateIngredient   = errors.New("field ingredients contains a duplicate ingredient id")
	ErrDuplicateTag          = errors.New("field tags contains a duplicate tag id")
	ErrAmountTooSmall        = errors.New("field amount must be at least 1")
	ErrCookingTimeTooSmall   = errors.New("field cooking_time must be at least 1")
	ErrUnknownIngredient     = errors.New("field ingredients references an unknown ingredient")
	ErrUnknownTag            = errors.New("field tags references an unknown tag")
	ErrImageInvalid          = errors.New("field image is not a valid base64 image")
	ErrAlreadyFavorited      = errors.New("recipe already in favorites")
	ErrNotFavorited          = errors.New("recipe is not in favorites")
	ErrAlreadyInCart         = errors.New("recipe already in shopping cart")
	ErrNotInCart             = errors.New("recipe is not in shopping cart")
	ErrShoppingCartEmpty     = errors.New("shopping cart is empty")
)

type (
	IngredientAmountRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required,min=1"`
	}

	CreateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		Image       string                    `json:"image" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
		Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,min=1,dive"`
		Tags        []string                  `json:"tags" validate:"required,min=1,dive,uuid"`
	}

	// UpdateRecipeRequest uses pointers for scalar fields so an omitted
	// field is distinguishable from a zero value. Ingredients and tags are
	// mandatory on update and always replace the stored sets wholesale.
	UpdateRecipeRequest struct {
		Name        *string                   `json:"name" validate:"omitempty,max=200"`
		Text        *string                   `json:"text"`
		Image       *string                   `json:"image"`
		CookingTime *int                      `json:"cooking_time" validate:"omitempty,min=1"`
		Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,min=1,dive"`
		Tags        []string                  `json:"tags" validate:"required,min=1,dive,uuid"`
	}

	// ListRecipesQuery carries the list filters. TagSlugs comes from the
	// request; the service resolves it against the catalog into TagIDs,
	// which is what the repository filters on.
	ListRecipesQuery struct {
		TagSlugs         []string
		TagIDs           []uuid.UUID
		AuthorID         string
		IsFavorited      bool
		IsInShoppingCart bool
		Page             int
		Limit            int
	}

	IngredientLineResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	// RecipeResponse is the denormalized, viewer-aware read view.
	RecipeResponse struct {
		ID                string                   `json:"id"`
		Tags              []TagResponse            `json:"tags"`
		Author            UserResponse             `json:"author"`
		Ingredients       []IngredientLineResponse `json:"ingredients"`
		IsFavorited       bool                     `json:"is_favorited"`
		IsInShoppingCart  bool                     `json:"is_in_shopping_cart"`
		Name              string                   `json:"name"`
		Image             string                   `json:"image"`
		Text              string                   `json:"text"`
		CookingTime       int                      `json:"cooking_time"`
	}

	// RecipeMiniResponse is the minimal public shape used by relation
	// create responses and subscription previews.
	RecipeMiniResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	ShoppingListReport struct {
		Filename string `json:"filename"`
		Content  string `json:"content"`
	}
)
