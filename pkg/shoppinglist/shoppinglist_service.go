package shoppinglist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram-backend/domain"
	"foodgram-backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const reportHeader = "Shopping list:"

type (
	ShoppingListService interface {
		BuildReport(ctx context.Context, userID string) (domain.ShoppingListReport, error)
	}

	shoppingListService struct {
		shoppingListRepository ShoppingListRepository
		userRepository         user.UserRepository
	}
)

func NewShoppingListService(shoppingListRepository ShoppingListRepository, userRepository user.UserRepository) ShoppingListService {
	return &shoppingListService{
		shoppingListRepository: shoppingListRepository,
		userRepository:         userRepository,
	}
}

// BuildReport renders the aggregated shopping list as plain text, one line
// per (ingredient, unit) group. An empty cart is an error, not an empty
// report.
func (s *shoppingListService) BuildReport(ctx context.Context, userID string) (domain.ShoppingListReport, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ShoppingListReport{}, domain.ErrParseUUID
	}

	owner, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ShoppingListReport{}, domain.ErrUserNotFound
		}
		return domain.ShoppingListReport{}, err
	}

	count, err := s.shoppingListRepository.CountCartEntries(ctx, userUUID)
	if err != nil {
		return domain.ShoppingListReport{}, err
	}
	if count == 0 {
		return domain.ShoppingListReport{}, domain.ErrShoppingCartEmpty
	}

	items, err := s.shoppingListRepository.GetAggregatedIngredients(ctx, userUUID)
	if err != nil {
		return domain.ShoppingListReport{}, err
	}

	var b strings.Builder
	b.WriteString(reportHeader)
	for _, item := range items {
		b.WriteString(fmt.Sprintf("\n%s (%s) - %d", item.Name, item.MeasurementUnit, item.Amount))
	}

	return domain.ShoppingListReport{
		Filename: fmt.Sprintf("%s_shopping_list.txt", owner.Username),
		Content:  b.String(),
	}, nil
}
