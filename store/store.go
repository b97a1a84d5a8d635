// Package store holds the gorm repositories behind the admin API.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raf-alpha/api-go/apperr"
	"github.com/raf-alpha/api-go/models"
	"gorm.io/gorm"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	ByID(ctx context.Context, id uint) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	RecordLogin(ctx context.Context, id uint, at time.Time) error
}

type TokenStore interface {
	Save(ctx context.Context, t *models.RefreshToken) error
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) (bool, error)
	DeleteForUser(ctx context.Context, userID uint) error
}

type CategoryStore interface {
	Create(ctx context.Context, c *models.Category) error
	Get(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context, lang string, page, pageSize int) ([]models.Category, int64, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) error
}

// UnitChange is the image side of a unit update, applied in one transaction.
type UnitChange struct {
	Add    []models.UnitImage
	Remove []string
}

type UnitStore interface {
	Create(ctx context.Context, u *models.Unit) error
	Get(ctx context.Context, id string) (*models.Unit, error)
	ListByCategory(ctx context.Context, categoryID, lang string) ([]models.Unit, error)
	Update(ctx context.Context, u *models.Unit, change UnitChange) error
	Delete(ctx context.Context, id string) ([]models.UnitImage, error)
}

// ContentStore covers the per-language content types: reviews, FAQs and blog posts.
type ContentStore[T any] interface {
	Create(ctx context.Context, v *T) error
	List(ctx context.Context, lang string) ([]T, error)
	Delete(ctx context.Context, id uint) (*T, error)
}

type InboxStore interface {
	Subscribe(ctx context.Context, s *models.Subscription) error
	AddInterested(ctx context.Context, i *models.Interested) error
	AddConsultation(ctx context.Context, c *models.Consultation) error
	UnreadSubscriptions(ctx context.Context) (int64, error)
	Subscriptions(ctx context.Context) ([]models.Subscription, error)
	UnreadInterested(ctx context.Context) ([]models.Interested, error)
	UnreadConsultations(ctx context.Context) ([]models.Consultation, error)
	MarkSubscriptionsRead(ctx context.Context, ids []uint) (int64, error)
	MarkInterestedRead(ctx context.Context, ids []uint) (int64, error)
	MarkConsultationsRead(ctx context.Context, ids []uint) (int64, error)
}

type AuditStore interface {
	Record(ctx context.Context, entry *models.ActivityLog) error
}

// mapError converts gorm errors to apperr sentinels. Context errors pass through.
func mapError(err error, entity string, id any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %v: %w", entity, id, err)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", entity, id, apperr.ErrNotFound)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s %v: %w", entity, id, apperr.ErrConflict)
	}
	return fmt.Errorf("%s %v: %w", entity, id, err)
}

func notFoundIfNone(res *gorm.DB, entity string, id any) error {
	if res.Error != nil {
		return mapError(res.Error, entity, id)
	}
	if res.RowsAffected == 0 {
		return mapError(gorm.ErrRecordNotFound, entity, id)
	}
	return nil
}
