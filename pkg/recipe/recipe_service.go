package recipe

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils/storage"
	"foodgram-backend/pkg/catalog"
	"foodgram-backend/pkg/relation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error
		GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, query domain.ListRecipesQuery, viewerID string) ([]domain.RecipeResponse, int64, error)
		FavoriteRecipe(ctx context.Context, recipeID string, userID string) (domain.RecipeMiniResponse, error)
		UnfavoriteRecipe(ctx context.Context, recipeID string, userID string) error
		AddToShoppingCart(ctx context.Context, recipeID string, userID string) (domain.RecipeMiniResponse, error)
		RemoveFromShoppingCart(ctx context.Context, recipeID string, userID string) error
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		catalogRepository catalog.CatalogRepository
		favorites         relation.Store[entities.Favorite]
		carts             relation.Store[entities.ShoppingCart]
		subscriptions     relation.Store[entities.Subscription]
		s3                storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	catalogRepository catalog.CatalogRepository,
	favorites relation.Store[entities.Favorite],
	carts relation.Store[entities.ShoppingCart],
	subscriptions relation.Store[entities.Subscription],
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:  recipeRepository,
		catalogRepository: catalogRepository,
		favorites:         favorites,
		carts:             carts,
		subscriptions:     subscriptions,
		s3:                s3,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	authorID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	if req.CookingTime < 1 {
		return domain.RecipeResponse{}, domain.ErrCookingTimeTooSmall
	}

	lines, tags, err := s.resolveComposition(ctx, req.Ingredients, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipeID := uuid.New()
	imageURL, err := s.storeImage(req.Image, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:          recipeID,
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    imageURL,
		CookingTime: req.CookingTime,
		CreatedAt:   time.Now(),
	}
	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].RecipeID = recipeID
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, lines, tags); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeResponse{}, domain.ErrDuplicateIngredient
		}
		return domain.RecipeResponse{}, err
	}

	created, err := s.recipeRepository.GetRecipeByID(ctx, recipeID.String())
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.toResponse(ctx, created, authorID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	requester, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	if recipe.AuthorID != requester {
		return domain.RecipeResponse{}, domain.ErrNotRecipeAuthor
	}

	lines, tags, err := s.resolveComposition(ctx, req.Ingredients, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if req.Name != nil {
		recipe.Name = *req.Name
	}
	if req.Text != nil {
		recipe.Text = *req.Text
	}
	if req.CookingTime != nil {
		if *req.CookingTime < 1 {
			return domain.RecipeResponse{}, domain.ErrCookingTimeTooSmall
		}
		recipe.CookingTime = *req.CookingTime
	}
	if req.Image != nil {
		imageURL, err := s.storeImage(*req.Image, recipe.ID)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		recipe.ImageURL = imageURL
	}

	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].RecipeID = recipe.ID
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, lines, tags); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeResponse{}, domain.ErrDuplicateIngredient
		}
		return domain.RecipeResponse{}, err
	}

	updated, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.toResponse(ctx, updated, requester)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	requester, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}
	if recipe.AuthorID != requester {
		return domain.ErrNotRecipeAuthor
	}

	return s.recipeRepository.DeleteRecipe(ctx, recipe.ID)
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	return s.toResponse(ctx, recipe, parseViewer(viewerID))
}

func (s *recipeService) GetRecipes(ctx context.Context, query domain.ListRecipesQuery, viewerID string) ([]domain.RecipeResponse, int64, error) {
	viewer := parseViewer(viewerID)

	query.TagIDs = nil
	if len(query.TagSlugs) > 0 {
		tags, err := s.catalogRepository.GetTagsBySlugs(ctx, query.TagSlugs)
		if err != nil {
			return nil, 0, err
		}
		// None of the requested slugs exist, so nothing can match.
		if len(tags) == 0 {
			return []domain.RecipeResponse{}, 0, nil
		}
		for _, tag := range tags {
			query.TagIDs = append(query.TagIDs, tag.ID)
		}
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, query, viewer)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		res, err := s.toResponse(ctx, recipe, viewer)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, res)
	}
	return result, count, nil
}

func (s *recipeService) FavoriteRecipe(ctx context.Context, recipeID string, userID string) (domain.RecipeMiniResponse, error) {
	recipe, user, err := s.loadRelationPair(ctx, recipeID, userID)
	if err != nil {
		return domain.RecipeMiniResponse{}, err
	}

	if err := s.favorites.Add(ctx, user, recipe.ID); err != nil {
		if errors.Is(err, relation.ErrAlreadyExists) {
			return domain.RecipeMiniResponse{}, domain.ErrAlreadyFavorited
		}
		return domain.RecipeMiniResponse{}, err
	}
	return miniResponse(recipe), nil
}

func (s *recipeService) UnfavoriteRecipe(ctx context.Context, recipeID string, userID string) error {
	recipe, user, err := s.loadRelationPair(ctx, recipeID, userID)
	if err != nil {
		return err
	}

	if err := s.favorites.Remove(ctx, user, recipe.ID); err != nil {
		if errors.Is(err, relation.ErrNotFound) {
			return domain.ErrNotFavorited
		}
		return err
	}
	return nil
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, recipeID string, userID string) (domain.RecipeMiniResponse, error) {
	recipe, user, err := s.loadRelationPair(ctx, recipeID, userID)
	if err != nil {
		return domain.RecipeMiniResponse{}, err
	}

	if err := s.carts.Add(ctx, user, recipe.ID); err != nil {
		if errors.Is(err, relation.ErrAlreadyExists) {
			return domain.RecipeMiniResponse{}, domain.ErrAlreadyInCart
		}
		return domain.RecipeMiniResponse{}, err
	}
	return miniResponse(recipe), nil
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, recipeID string, userID string) error {
	recipe, user, err := s.loadRelationPair(ctx, recipeID, userID)
	if err != nil {
		return err
	}

	if err := s.carts.Remove(ctx, user, recipe.ID); err != nil {
		if errors.Is(err, relation.ErrNotFound) {
			return domain.ErrNotInCart
		}
		return err
	}
	return nil
}

// resolveComposition validates the incoming ingredient-amount and tag id
// lists and resolves them against the catalog. Duplicate ids are rejected
// outright, not deduplicated: silently collapsing them would make the
// amounts ambiguous.
func (s *recipeService) resolveComposition(ctx context.Context, ingredients []domain.IngredientAmountRequest, tagIDs []string) ([]entities.IngredientLine, []entities.Tag, error) {
	if len(ingredients) == 0 {
		return nil, nil, domain.ErrIngredientsRequired
	}
	if len(tagIDs) == 0 {
		return nil, nil, domain.ErrTagsRequired
	}

	seenIngredients := make(map[uuid.UUID]bool, len(ingredients))
	lines := make([]entities.IngredientLine, 0, len(ingredients))
	ingredientIDs := make([]uuid.UUID, 0, len(ingredients))
	for _, item := range ingredients {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			return nil, nil, domain.ErrParseUUID
		}
		if seenIngredients[id] {
			return nil, nil, domain.ErrDuplicateIngredient
		}
		seenIngredients[id] = true
		if item.Amount < 1 {
			return nil, nil, domain.ErrAmountTooSmall
		}
		ingredientIDs = append(ingredientIDs, id)
		lines = append(lines, entities.IngredientLine{
			IngredientID: id,
			Amount:       item.Amount,
		})
	}

	seenTags := make(map[uuid.UUID]bool, len(tagIDs))
	parsedTagIDs := make([]uuid.UUID, 0, len(tagIDs))
	for _, raw := range tagIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, nil, domain.ErrParseUUID
		}
		if seenTags[id] {
			return nil, nil, domain.ErrDuplicateTag
		}
		seenTags[id] = true
		parsedTagIDs = append(parsedTagIDs, id)
	}

	found, err := s.catalogRepository.GetIngredientsByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(found) != len(ingredientIDs) {
		return nil, nil, domain.ErrUnknownIngredient
	}

	tags, err := s.catalogRepository.GetTagsByIDs(ctx, parsedTagIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(tags) != len(parsedTagIDs) {
		return nil, nil, domain.ErrUnknownTag
	}

	return lines, tags, nil
}

// storeImage uploads a base64 data URL to S3 and returns the public URL.
// A plain URL (already-stored image on update) passes through unchanged.
func (s *recipeService) storeImage(image string, recipeID uuid.UUID) (string, error) {
	if !strings.HasPrefix(image, "data:") {
		return image, nil
	}

	meta, payload, ok := strings.Cut(image, ";base64,")
	if !ok {
		return "", domain.ErrImageInvalid
	}
	contentType := strings.TrimPrefix(meta, "data:")

	var ext string
	switch contentType {
	case "image/png":
		ext = "png"
	case "image/jpeg", "image/jpg":
		ext = "jpg"
	case "image/gif":
		ext = "gif"
	default:
		return "", domain.ErrImageInvalid
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", domain.ErrImageInvalid
	}

	objectKey, err := s.s3.UploadBytes(
		fmt.Sprintf("recipes/%s.%s", recipeID.String(), ext),
		data,
		contentType,
	)
	if err != nil {
		return "", err
	}
	return s.s3.GetPublicLinkKey(objectKey), nil
}

func (s *recipeService) loadRelationPair(ctx context.Context, recipeID, userID string) (*entities.Recipe, uuid.UUID, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return nil, uuid.Nil, domain.ErrParseUUID
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, uuid.Nil, domain.ErrRecipeNotFound
		}
		return nil, uuid.Nil, err
	}
	return recipe, user, nil
}

func parseViewer(viewerID string) uuid.UUID {
	if viewerID == "" {
		return uuid.Nil
	}
	viewer, err := uuid.Parse(viewerID)
	if err != nil {
		return uuid.Nil
	}
	return viewer
}

func miniResponse(recipe *entities.Recipe) domain.RecipeMiniResponse {
	return domain.RecipeMiniResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

// toResponse builds the viewer-aware read view. For an anonymous viewer
// every relation flag is false.
func (s *recipeService) toResponse(ctx context.Context, recipe *entities.Recipe, viewer uuid.UUID) (domain.RecipeResponse, error) {
	tags := make([]domain.TagResponse, 0, len(recipe.Tags))
	for _, tag := range recipe.Tags {
		tags = append(tags, catalog.TagResponse(tag))
	}

	ingredients := make([]domain.IngredientLineResponse, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		item := domain.IngredientLineResponse{
			ID:     line.IngredientID.String(),
			Amount: line.Amount,
		}
		if line.Ingredient != nil {
			item.Name = line.Ingredient.Name
			item.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, item)
	}

	author := domain.UserResponse{ID: recipe.AuthorID.String()}
	if recipe.Author != nil {
		author.Email = recipe.Author.Email
		author.Username = recipe.Author.Username
		author.FirstName = recipe.Author.FirstName
		author.LastName = recipe.Author.LastName
	}

	res := domain.RecipeResponse{
		ID:          recipe.ID.String(),
		Tags:        tags,
		Author:      author,
		Ingredients: ingredients,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
	}

	if viewer == uuid.Nil {
		return res, nil
	}

	isFavorited, err := s.favorites.Exists(ctx, viewer, recipe.ID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	res.IsFavorited = isFavorited

	inCart, err := s.carts.Exists(ctx, viewer, recipe.ID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	res.IsInShoppingCart = inCart

	if viewer != recipe.AuthorID {
		subscribed, err := s.subscriptions.Exists(ctx, viewer, recipe.AuthorID)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		res.Author.IsSubscribed = subscribed
	}

	return res, nil
}
