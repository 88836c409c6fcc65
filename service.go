package bookshelf

import (
	"context"
	"fmt"
)

type Service[M Resource] interface {
	List(ctx context.Context) ([]M, error)
	CreateOne(ctx context.Context, item M) (M, error)
	GetOne(ctx context.Context, itemID string) (M, error)
	UpdateOne(ctx context.Context, itemID string, item M) (M, error)
	DeleteOne(ctx context.Context, itemID string) error
}

type service[M Resource] struct {
	repo Repository[M]
}

func NewService[M Resource](repo Repository[M]) Service[M] {
	return &service[M]{repo: repo}
}

func (s *service[M]) List(ctx context.Context) ([]M, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return items, nil
}

// CreateOne refuses items without an id and ids that are already taken.
func (s *service[M]) CreateOne(ctx context.Context, item M) (M, error) {
	if item.GetID() == "" {
		return item, ErrMissingID
	}

	exists, err := s.repo.Exists(ctx, item.GetID())
	if err != nil {
		return item, fmt.Errorf("failed to check item: %w", err)
	}

	if exists {
		return item, ErrDuplicateKey
	}

	err = s.repo.CreateOne(ctx, item)
	if err != nil {
		return item, fmt.Errorf("failed to create item: %w", err)
	}

	return item, nil
}

func (s *service[M]) GetOne(ctx context.Context, itemID string) (M, error) {
	item, err := s.repo.FindOneByID(ctx, itemID)
	if err != nil {
		return item, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

func (s *service[M]) UpdateOne(ctx context.Context, itemID string, item M) (M, error) {
	found, err := s.repo.UpdateOne(ctx, itemID, item)
	if err != nil {
		return item, fmt.Errorf("failed to update item: %w", err)
	}

	if !found {
		return item, fmt.Errorf("failed to update item %s: %w", itemID, ErrRecordNotFound)
	}

	return item, nil
}

func (s *service[M]) DeleteOne(ctx context.Context, itemID string) error {
	found, err := s.repo.DeleteOne(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if !found {
		return fmt.Errorf("failed to delete item %s: %w", itemID, ErrRecordNotFound)
	}

	return nil
}
