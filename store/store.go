// Package store is the durable record store for notifications.
package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"examnotify/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindExact looks up the notification with exactly this (text, url) pair.
// Returns gorm.ErrRecordNotFound when absent.
func (s *Store) FindExact(ctx context.Context, text, url string) (*models.Notification, error) {
	var n models.Notification
	err := s.db.WithContext(ctx).
		Where("text = ? AND url = ?", text, url).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// FindPartial looks up a notification matching on text OR url. When several
// rows qualify, the one with the lowest id wins so the choice is stable
// across passes.
func (s *Store) FindPartial(ctx context.Context, text, url string) (*models.Notification, error) {
	var n models.Notification
	err := s.db.WithContext(ctx).
		Where("text = ? OR url = ?", text, url).
		Order("id ASC").
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Insert creates a new notification. Timestamps are set at call time.
func (s *Store) Insert(ctx context.Context, text, url string) (*models.Notification, error) {
	n := models.Notification{Text: text, URL: url}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&n).Error
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Update rewrites text and url on an existing row, refreshing updated_at and
// leaving id and created_at untouched.
func (s *Store) Update(ctx context.Context, id uint, text, url string) (*models.Notification, error) {
	var n models.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&n, id).Error; err != nil {
			return err
		}
		return tx.Model(&n).Updates(map[string]interface{}{"text": text, "url": url}).Error
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Delete removes a notification by id. Deleting a missing id is not an
// error; the bool reports whether a row was removed.
func (s *Store) Delete(ctx context.Context, id uint) (bool, error) {
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Notification{}, id)
		affected = res.RowsAffected
		return res.Error
	})
	return affected > 0, err
}

// Get returns the notification with this id, or gorm.ErrRecordNotFound.
func (s *Store) Get(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// Query filters, sorts and paginates notification listings.
type Query struct {
	Skip      int
	Limit     int
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	Sort      models.SortOrder
}

// Search returns the total number of rows matching the filters and the
// requested page of them. The count is taken before skip/limit.
func (s *Store) Search(ctx context.Context, q Query) (int64, []models.Notification, error) {
	scope := func() *gorm.DB {
		tx := s.db.WithContext(ctx).Model(&models.Notification{})
		if q.Search != "" {
			needle := "%" + strings.ToLower(q.Search) + "%"
			tx = tx.Where("LOWER(text) LIKE ? OR LOWER(url) LIKE ?", needle, needle)
		}
		if q.StartDate != nil {
			tx = tx.Where("created_at >= ?", *q.StartDate)
		}
		if q.EndDate != nil {
			tx = tx.Where("created_at <= ?", *q.EndDate)
		}
		return tx
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	tx := scope()
	switch q.Sort {
	case models.SortOldest:
		tx = tx.Order("created_at ASC")
	case models.SortTitle:
		tx = tx.Order("text ASC")
	default:
		tx = tx.Order("created_at DESC")
	}

	items := []models.Notification{}
	if err := tx.Offset(q.Skip).Limit(q.Limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
