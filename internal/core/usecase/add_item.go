package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/ports"
)

type AddItemUseCase struct {
	repo  ports.WardrobeRepository
	queue ports.MessageQueue
	now   func() time.Time
}

func NewAddItemUseCase(repo ports.WardrobeRepository, queue ports.MessageQueue) *AddItemUseCase {
	return &AddItemUseCase{
		repo:  repo,
		queue: queue,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (uc *AddItemUseCase) AddItem(ctx context.Context, in domain.NewItem) (*domain.WardrobeItem, error) {
	item, err := newWardrobeItem(in, uc.now())
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create wardrobe item: %w", err)
	}

	if item.ExtractionStatus == domain.ExtractionPending && uc.queue != nil {
		if err := uc.queue.PublishItemAdded(ctx, item.ID); err != nil {
			return nil, fmt.Errorf("publish item added event: %w", err)
		}
	}

	return item, nil
}

// GetItem returns an item owned by userID. Items of other users are
// reported as not found.
func (uc *AddItemUseCase) GetItem(ctx context.Context, userID, id string) (*domain.WardrobeItem, error) {
	userID = strings.TrimSpace(userID)
	id = strings.TrimSpace(id)
	switch {
	case userID == "":
		return nil, domain.WrapError(domain.ErrInvalidInput, "get item", errors.New("user id is required"))
	case id == "":
		return nil, domain.WrapError(domain.ErrInvalidInput, "get item", errors.New("item id is required"))
	}
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch wardrobe item: %w", err)
	}
	if item.UserID != userID {
		return nil, domain.WrapError(domain.ErrItemNotFound, "get item", fmt.Errorf("id=%s", id))
	}
	return item, nil
}

func (uc *AddItemUseCase) ListItems(ctx context.Context, userID string, filter domain.ItemFilter) ([]domain.WardrobeItem, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "list items", errors.New("user id is required"))
	}
	filter.Category = normalizeCategory(filter.Category)
	filter.Subcategory = normalizeCategory(filter.Subcategory)

	items, err := uc.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list wardrobe items: %w", err)
	}
	return items, nil
}

func newWardrobeItem(in domain.NewItem, now time.Time) (*domain.WardrobeItem, error) {
	item := &domain.WardrobeItem{
		ID:          uuid.NewString(),
		UserID:      strings.TrimSpace(in.UserID),
		Name:        strings.TrimSpace(in.Name),
		Category:    normalizeCategory(in.Category),
		Subcategory: normalizeCategory(in.Subcategory),
		Color:       strings.TrimSpace(in.Color),
		Silhouette:  strings.TrimSpace(in.Silhouette),
		Style:       strings.TrimSpace(in.Style),
		Material:    strings.TrimSpace(in.Material),
		Seasons:     normalizeSeasons(in.Seasons),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var missing []string
	if item.UserID == "" {
		missing = append(missing, "user_id")
	}
	if item.Name == "" {
		missing = append(missing, "name")
	}
	if item.Category == "" {
		missing = append(missing, "category")
	}
	if item.Subcategory == "" {
		missing = append(missing, "subcategory")
	}
	if len(missing) > 0 {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"add item",
			fmt.Errorf("missing required fields: %s", strings.Join(missing, ", ")),
		)
	}

	item.ExtractionStatus = initialStatus(item)
	return item, nil
}

// initialStatus queues extraction only when attributes are missing and there
// is a description to extract them from.
func initialStatus(item *domain.WardrobeItem) domain.ExtractionStatus {
	switch {
	case item.Color != "" && item.Style != "":
		return domain.ExtractionReady
	case item.Description != "":
		return domain.ExtractionPending
	default:
		return domain.ExtractionSkipped
	}
}

// normalizeCategory maps "One Piece" and " one  piece" alike to "one_piece".
// Stored items and candidates must go through it to compare equal.
func normalizeCategory(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.Join(strings.Fields(value), "_")
}

func normalizeSeasons(seasons []string) []string {
	out := make([]string, 0, len(seasons))
	for _, s := range seasons {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
