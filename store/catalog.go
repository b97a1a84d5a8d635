package store

import (
	"context"

	"github.com/raf-alpha/api-go/models"
	"gorm.io/gorm"
)

type Categories struct {
	DB *gorm.DB
}

func NewCategories(db *gorm.DB) *Categories {
	return &Categories{DB: db}
}

func (s *Categories) Create(ctx context.Context, c *models.Category) error {
	return mapError(s.DB.WithContext(ctx).Create(c).Error, "category", c.Title)
}

func (s *Categories) Get(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, mapError(err, "category", id)
	}
	return &c, nil
}

func (s *Categories) List(ctx context.Context, lang string, page, pageSize int) ([]models.Category, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Category{})
	if lang != "" {
		q = q.Where("lang = ?", lang)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, mapError(err, "categories", "count")
	}

	var out []models.Category
	err := q.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&out).Error
	if err != nil {
		return nil, 0, mapError(err, "categories", "list")
	}
	return out, total, nil
}

func (s *Categories) Update(ctx context.Context, c *models.Category) error {
	return notFoundIfNone(s.DB.WithContext(ctx).Model(c).Select("*").Omit("created_at", "deleted_at").Updates(c), "category", c.ID)
}

func (s *Categories) Delete(ctx context.Context, id string) error {
	return notFoundIfNone(s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}), "category", id)
}

type Units struct {
	DB *gorm.DB
}

func NewUnits(db *gorm.DB) *Units {
	return &Units{DB: db}
}

func (s *Units) Create(ctx context.Context, u *models.Unit) error {
	return mapError(s.DB.WithContext(ctx).Create(u).Error, "unit", u.Title)
}

func (s *Units) Get(ctx context.Context, id string) (*models.Unit, error) {
	var u models.Unit
	err := s.DB.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, mapError(err, "unit", id)
	}
	return &u, nil
}

func (s *Units) ListByCategory(ctx context.Context, categoryID, lang string) ([]models.Unit, error) {
	q := s.DB.WithContext(ctx).Preload("Images").Where("category_id = ?", categoryID)
	if lang != "" {
		q = q.Where("lang = ?", lang)
	}
	var out []models.Unit
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, mapError(err, "units", categoryID)
	}
	return out, nil
}

// Update writes the unit fields, drops removed images and inserts new ones.
func (s *Units) Update(ctx context.Context, u *models.Unit, change UnitChange) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(u).Select("*").Omit("created_at", "deleted_at", "Images").Updates(u)
		if err := notFoundIfNone(res, "unit", u.ID); err != nil {
			return err
		}
		if len(change.Remove) > 0 {
			err := tx.Where("unit_id = ? AND id IN ?", u.ID, change.Remove).Delete(&models.UnitImage{}).Error
			if err != nil {
				return mapError(err, "unit images", u.ID)
			}
		}
		if len(change.Add) > 0 {
			if err := tx.Create(&change.Add).Error; err != nil {
				return mapError(err, "unit images", u.ID)
			}
		}
		return nil
	})
}

// Delete removes the unit and returns its images so their objects can be cleaned up.
func (s *Units) Delete(ctx context.Context, id string) ([]models.UnitImage, error) {
	var images []models.UnitImage
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("unit_id = ?", id).Find(&images).Error; err != nil {
			return mapError(err, "unit images", id)
		}
		if err := notFoundIfNone(tx.Where("id = ?", id).Delete(&models.Unit{}), "unit", id); err != nil {
			return err
		}
		return mapError(tx.Where("unit_id = ?", id).Delete(&models.UnitImage{}).Error, "unit images", id)
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}
