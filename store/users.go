package store

import (
	"context"
	"time"

	"github.com/raf-alpha/api-go/models"
	"gorm.io/gorm"
)

type Users struct {
	DB *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{DB: db}
}

func (s *Users) Create(ctx context.Context, u *models.User) error {
	return mapError(s.DB.WithContext(ctx).Create(u).Error, "user", u.Email)
}

func (s *Users) ByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, mapError(err, "user", id)
	}
	return &u, nil
}

func (s *Users) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, mapError(err, "user", email)
	}
	return &u, nil
}

func (s *Users) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, mapError(err, "users", "list")
	}
	return users, nil
}

func (s *Users) Update(ctx context.Context, u *models.User) error {
	res := s.DB.WithContext(ctx).Model(u).Updates(map[string]interface{}{
		"first_name":  u.FirstName,
		"middle_name": u.MiddleName,
		"last_name":   u.LastName,
		"phone":       u.Phone,
	})
	return notFoundIfNone(res, "user", u.ID)
}

func (s *Users) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	return notFoundIfNone(res, "user", id)
}

func (s *Users) Delete(ctx context.Context, id uint) error {
	return notFoundIfNone(s.DB.WithContext(ctx).Delete(&models.User{}, id), "user", id)
}

func (s *Users) RecordLogin(ctx context.Context, id uint, at time.Time) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login_at", at)
	return notFoundIfNone(res, "user", id)
}

func (s *Users) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, mapError(err, "users", "count")
	}
	return n, nil
}

type Tokens struct {
	DB *gorm.DB
}

func NewTokens(db *gorm.DB) *Tokens {
	return &Tokens{DB: db}
}

func (s *Tokens) Save(ctx context.Context, t *models.RefreshToken) error {
	return mapError(s.DB.WithContext(ctx).Save(t).Error, "refresh token", t.UserID)
}

func (s *Tokens) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	if err := s.DB.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		return nil, mapError(err, "refresh token", "lookup")
	}
	return &t, nil
}

func (s *Tokens) Delete(ctx context.Context, token string) (bool, error) {
	res := s.DB.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{})
	if res.Error != nil {
		return false, mapError(res.Error, "refresh token", "delete")
	}
	return res.RowsAffected > 0, nil
}

func (s *Tokens) DeleteForUser(ctx context.Context, userID uint) error {
	return mapError(s.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error, "refresh token", userID)
}

type Audit struct {
	DB *gorm.DB
}

func NewAudit(db *gorm.DB) *Audit {
	return &Audit{DB: db}
}

func (s *Audit) Record(ctx context.Context, entry *models.ActivityLog) error {
	return mapError(s.DB.WithContext(ctx).Create(entry).Error, "activity", entry.Activity)
}
