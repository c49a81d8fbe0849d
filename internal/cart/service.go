package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

// Service hands out session-scoped cart stores sharing one storage and notifier.
type Service struct {
	storage  Storage
	notifier *Notifier
}

func NewService(storage Storage, notifier *Notifier) *Service {
	return &Service{storage: storage, notifier: notifier}
}

func (s *Service) Notifier() *Notifier {
	return s.notifier
}

// Session returns the cart of one session.
func (s *Service) Session(sessionID string) *Store {
	return &Store{
		sessionID: sessionID,
		key:       storageKey(sessionID),
		storage:   s.storage,
		notifier:  s.notifier,
	}
}

// Store is the cart of a single session. Every mutation reads the whole
// collection, changes it, writes it back and publishes a Change.
type Store struct {
	sessionID string
	key       string
	storage   Storage
	notifier  *Notifier
}

func (s *Store) SessionID() string {
	return s.sessionID
}

// Get never fails: a missing, unreadable or corrupt cart reads as empty.
func (s *Store) Get(ctx context.Context) []Entry {
	data, err := s.storage.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrCartNotFound) {
			logger.FromCtx(ctx).Warn("cart storage unavailable, serving empty cart", zap.Error(err))
		}
		return []Entry{}
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.FromCtx(ctx).Warn("corrupt cart payload, serving empty cart", zap.Error(err))
		return []Entry{}
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries
}

// Add accumulates quantity onto the entry with the item's composite key, or
// inserts it. The result is clamped to the stock ceiling and dropped when it
// falls to zero or below.
func (s *Store) Add(ctx context.Context, item Item, quantity int) ([]Entry, error) {
	if item.ProductID == "" {
		return nil, ErrInvalidItem
	}

	entries := s.Get(ctx)
	key := item.Key()

	idx := indexOf(entries, key)
	if idx >= 0 {
		e := &entries[idx]
		if item.Stock != nil {
			e.Stock = item.Stock
		}
		e.Quantity = clamp(e.Quantity+quantity, e.Stock)
	} else {
		entries = append(entries, Entry{
			ID:                   key,
			ProductID:            item.ProductID,
			ProductName:          item.ProductName,
			ProductImage:         item.ProductImage,
			Price:                item.Price,
			Quantity:             clamp(quantity, item.Stock),
			SelectedSize:         item.SelectedSize,
			SelectedColor:        item.SelectedColor,
			Stock:                item.Stock,
			MinimumOrderQuantity: item.MinimumOrderQuantity,
		})
		idx = len(entries) - 1
	}

	if entries[idx].Quantity <= 0 {
		entries = append(entries[:idx], entries[idx+1:]...)
	}

	return entries, s.save(ctx, entries)
}

// SetQuantity overwrites the quantity of key; zero or less removes it.
// An unknown key leaves the collection unchanged.
func (s *Store) SetQuantity(ctx context.Context, key string, quantity int) ([]Entry, error) {
	entries := s.Get(ctx)

	if idx := indexOf(entries, key); idx >= 0 {
		if quantity <= 0 {
			entries = append(entries[:idx], entries[idx+1:]...)
		} else {
			entries[idx].Quantity = clamp(quantity, entries[idx].Stock)
		}
	}

	return entries, s.save(ctx, entries)
}

func (s *Store) Remove(ctx context.Context, key string) ([]Entry, error) {
	entries := s.Get(ctx)

	kept := entries[:0]
	for _, e := range entries {
		if e.ID != key {
			kept = append(kept, e)
		}
	}

	return kept, s.save(ctx, kept)
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.Delete(ctx, s.key); err != nil {
		logger.FromCtx(ctx).Error("failed to clear cart", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrFailedClearCart, err)
	}

	s.notifier.Publish(Change{SessionID: s.sessionID, Count: 0})
	return nil
}

func (s *Store) save(ctx context.Context, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedSaveCart, err)
	}

	if err := s.storage.Save(ctx, s.key, data); err != nil {
		logger.FromCtx(ctx).Error("failed to save cart", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrFailedSaveCart, err)
	}

	s.notifier.Publish(Change{SessionID: s.sessionID, Count: Count(entries)})
	return nil
}

func indexOf(entries []Entry, key string) int {
	for i, e := range entries {
		if e.ID == key {
			return i
		}
	}
	return -1
}
