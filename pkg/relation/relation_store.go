package relation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAlreadyExists = errors.New("relation already exists")
	ErrNotFound      = errors.New("relation not found")
)

type (
	// Store is a deduplicated (user, target) edge: favorites, shopping
	// cart entries and subscriptions are the same shape, so one generic
	// implementation is instantiated once per relation kind.
	Store[R any] interface {
		Add(ctx context.Context, user, target uuid.UUID) error
		Remove(ctx context.Context, user, target uuid.UUID) error
		Exists(ctx context.Context, user, target uuid.UUID) (bool, error)
	}

	store[R any] struct {
		db         *gorm.DB
		userColumn string
		targetCol  string
		newEntry   func(user, target uuid.UUID) R
	}
)

func NewStore[R any](db *gorm.DB, userColumn, targetColumn string, newEntry func(user, target uuid.UUID) R) Store[R] {
	return &store[R]{
		db:         db,
		userColumn: userColumn,
		targetCol:  targetColumn,
		newEntry:   newEntry,
	}
}

func (s *store[R]) where(user, target uuid.UUID) (string, []interface{}) {
	return fmt.Sprintf("%s = ? AND %s = ?", s.userColumn, s.targetCol),
		[]interface{}{user, target}
}

// Add reports ErrAlreadyExists for a duplicate pair. The existence check
// only produces the friendlier error early; the unique index on the table
// is the authoritative guard, so a lost race between two concurrent adds
// still comes back as ErrAlreadyExists via gorm.ErrDuplicatedKey.
func (s *store[R]) Add(ctx context.Context, user, target uuid.UUID) error {
	exists, err := s.Exists(ctx, user, target)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyExists
	}

	entry := s.newEntry(user, target)
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Remove reports ErrNotFound when no such relation exists. Removing a
// never-added relation is an error, never a silent no-op.
func (s *store[R]) Remove(ctx context.Context, user, target uuid.UUID) error {
	cond, args := s.where(user, target)
	res := s.db.WithContext(ctx).Where(cond, args...).Delete(new(R))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *store[R]) Exists(ctx context.Context, user, target uuid.UUID) (bool, error) {
	var count int64
	cond, args := s.where(user, target)
	if err := s.db.WithContext(ctx).Model(new(R)).Where(cond, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
