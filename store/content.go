package store

import (
	"context"
	"fmt"

	"github.com/raf-alpha/api-go/models"
	"gorm.io/gorm"
)

// Content is a ContentStore for any per-language model with a uint key.
type Content[T any] struct {
	DB     *gorm.DB
	Entity string
}

func NewContent[T any](db *gorm.DB, entity string) *Content[T] {
	return &Content[T]{DB: db, Entity: entity}
}

func (s *Content[T]) Create(ctx context.Context, v *T) error {
	return mapError(s.DB.WithContext(ctx).Create(v).Error, s.Entity, "create")
}

func (s *Content[T]) List(ctx context.Context, lang string) ([]T, error) {
	q := s.DB.WithContext(ctx).Model(new(T))
	if lang != "" {
		q = q.Where("lang = ?", lang)
	}
	var out []T
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, mapError(err, s.Entity, "list")
	}
	return out, nil
}

func (s *Content[T]) Delete(ctx context.Context, id uint) (*T, error) {
	v := new(T)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(v, id).Error; err != nil {
			return err
		}
		return tx.Delete(v).Error
	})
	if err != nil {
		return nil, mapError(err, s.Entity, id)
	}
	return v, nil
}

type Inbox struct {
	DB *gorm.DB
}

func NewInbox(db *gorm.DB) *Inbox {
	return &Inbox{DB: db}
}

func (s *Inbox) Subscribe(ctx context.Context, sub *models.Subscription) error {
	return mapError(s.DB.WithContext(ctx).Create(sub).Error, "subscription", sub.Email)
}

func (s *Inbox) AddInterested(ctx context.Context, i *models.Interested) error {
	return mapError(s.DB.WithContext(ctx).Create(i).Error, "interested", i.Phone)
}

func (s *Inbox) AddConsultation(ctx context.Context, c *models.Consultation) error {
	return mapError(s.DB.WithContext(ctx).Create(c).Error, "consultation", c.Phone)
}

func (s *Inbox) UnreadSubscriptions(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Subscription{}).Where("is_read = ?", false).Count(&n).Error
	return n, mapError(err, "subscriptions", "unread")
}

func (s *Inbox) Subscriptions(ctx context.Context) ([]models.Subscription, error) {
	var out []models.Subscription
	err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, mapError(err, "subscriptions", "list")
}

func (s *Inbox) UnreadInterested(ctx context.Context) ([]models.Interested, error) {
	var out []models.Interested
	err := s.DB.WithContext(ctx).Where("is_read = ?", false).Order("created_at DESC").Find(&out).Error
	return out, mapError(err, "interested", "unread")
}

func (s *Inbox) UnreadConsultations(ctx context.Context) ([]models.Consultation, error) {
	var out []models.Consultation
	err := s.DB.WithContext(ctx).Where("is_read = ?", false).Order("created_at DESC").Find(&out).Error
	return out, mapError(err, "consultations", "unread")
}

func (s *Inbox) MarkSubscriptionsRead(ctx context.Context, ids []uint) (int64, error) {
	return s.markRead(ctx, &models.Subscription{}, "subscriptions", ids)
}

func (s *Inbox) MarkInterestedRead(ctx context.Context, ids []uint) (int64, error) {
	return s.markRead(ctx, &models.Interested{}, "interested", ids)
}

func (s *Inbox) MarkConsultationsRead(ctx context.Context, ids []uint) (int64, error) {
	return s.markRead(ctx, &models.Consultation{}, "consultations", ids)
}

// markRead flags the given rows as read; an empty ids list marks every unread row.
func (s *Inbox) markRead(ctx context.Context, model interface{}, entity string, ids []uint) (int64, error) {
	q := s.DB.WithContext(ctx).Model(model).Where("is_read = ?", false)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	res := q.Update("is_read", true)
	if res.Error != nil {
		return 0, mapError(res.Error, entity, fmt.Sprint(ids))
	}
	return res.RowsAffected, nil
}
