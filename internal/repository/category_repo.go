package repository

import (
	"context"
	"strings"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	FindAll(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	Search(ctx context.Context, name string) ([]model.Category, error)
	Rename(ctx context.Context, id uint, name string) (*model.Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

// errDuplicateName is what a unique-index hit on categories.name turns into
var errDuplicateName = apperr.Validation("name", "category already exists")

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	err := r.db.WithContext(ctx).Create(category).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errDuplicateName
	}
	return errors.Wrap(err, "create category")
}

func (r *categoryRepo) FindAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, errors.Wrap(err, "list categories")
}

func (r *categoryRepo) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category", id)
		}
		return nil, errors.Wrap(err, "find category")
	}
	return &category, nil
}

// FindByName returns nil without error when no category carries the name
func (r *categoryRepo) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "find category by name")
	}
	if len(categories) == 0 {
		return nil, nil
	}
	return &categories[0], nil
}

func (r *categoryRepo) Search(ctx context.Context, name string) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(strings.ToLower(name))).
		Order("name ASC").
		Find(&categories).Error
	return categories, errors.Wrap(err, "search categories")
}

func (r *categoryRepo) Rename(ctx context.Context, id uint, name string) (*model.Category, error) {
	result := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Update("name", name)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return nil, errDuplicateName
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "rename category")
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("category", id)
	}
	return r.FindByID(ctx, id)
}

func (r *categoryRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, errors.Wrap(err, "check category")
}
