package service

import (
	"context"
	"strings"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
)

type CategoryService interface {
	ListCategories(ctx context.Context) ([]model.CategoryView, error)
	GetCategory(ctx context.Context, id uint) (*model.CategoryView, error)
	SearchCategories(ctx context.Context, name string) ([]model.CategoryView, error)
	CreateCategory(ctx context.Context, in *model.CategoryInput) (*model.CategoryView, error)
	RenameCategory(ctx context.Context, id uint, in *model.CategoryInput) (*model.CategoryView, error)
}

type categoryService struct {
	store repository.Store
}

func NewCategoryService(store repository.Store) CategoryService {
	return &categoryService{store: store}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]model.CategoryView, error) {
	categories, err := s.store.Categories().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toCategoryViews(categories), nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uint) (*model.CategoryView, error) {
	category, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := category.ToView()
	return &view, nil
}

func (s *categoryService) SearchCategories(ctx context.Context, name string) ([]model.CategoryView, error) {
	categories, err := s.store.Categories().Search(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	return toCategoryViews(categories), nil
}

func (s *categoryService) CreateCategory(ctx context.Context, in *model.CategoryInput) (*model.CategoryView, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate(in); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, in.Name, 0); err != nil {
		return nil, err
	}

	category := &model.Category{Name: in.Name}
	if err := s.store.Categories().Create(ctx, category); err != nil {
		return nil, err
	}
	view := category.ToView()
	return &view, nil
}

func (s *categoryService) RenameCategory(ctx context.Context, id uint, in *model.CategoryInput) (*model.CategoryView, error) {
	if _, err := s.store.Categories().FindByID(ctx, id); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validate(in); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, in.Name, id); err != nil {
		return nil, err
	}

	category, err := s.store.Categories().Rename(ctx, id, in.Name)
	if err != nil {
		return nil, err
	}
	view := category.ToView()
	return &view, nil
}

// ensureNameFree rejects a name already held by a category other than selfID.
// The unique index still catches concurrent writers that both pass this check.
func (s *categoryService) ensureNameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.store.Categories().FindByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return apperr.Validation("name", "category already exists")
	}
	return nil
}

func toCategoryViews(categories []model.Category) []model.CategoryView {
	views := make([]model.CategoryView, 0, len(categories))
	for i := range categories {
		views = append(views, categories[i].ToView())
	}
	return views
}
