package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ledgerline/ledgerline-backend/internal/db"
	"github.com/ledgerline/ledgerline-backend/internal/repository"
)

// ============================================
// Category Service
// ============================================

const categoryCacheTTL = 5 * time.Minute

type CategoryService interface {
	List(ctx context.Context, userID, organizationID string) ([]*repository.ExpenseCategory, error)
	Create(ctx context.Context, userID, organizationID, name, description string) (*repository.ExpenseCategory, error)
	Update(ctx context.Context, userID, organizationID, categoryID, name, description string) (*repository.ExpenseCategory, error)
	Delete(ctx context.Context, userID, organizationID, categoryID string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	access       AccessService
	cache        *db.RedisDB
}

func NewCategoryService(categoryRepo repository.CategoryRepository, access AccessService, cache *db.RedisDB) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, access: access, cache: cache}
}

func categoryCacheKey(organizationID string) string {
	return fmt.Sprintf("categories:%s", organizationID)
}

func (s *categoryService) List(ctx context.Context, userID, organizationID string) ([]*repository.ExpenseCategory, error) {
	if _, err := s.access.RequireMembership(ctx, userID, organizationID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached []*repository.ExpenseCategory
		if err := s.cache.GetCache(ctx, categoryCacheKey(organizationID), &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.categoryRepo.FindByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetCache(ctx, categoryCacheKey(organizationID), categories, categoryCacheTTL)
	}

	return categories, nil
}

func (s *categoryService) Create(ctx context.Context, userID, organizationID, name, description string) (*repository.ExpenseCategory, error) {
	if _, err := s.access.RequireAdmin(ctx, userID, organizationID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.categoryRepo.FindByName(ctx, organizationID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	category := &repository.ExpenseCategory{
		OrganizationID: organizationID,
		Name:           name,
		Description:    normalizeDescription(description),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.invalidate(ctx, organizationID)
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, userID, organizationID, categoryID, name, description string) (*repository.ExpenseCategory, error) {
	if _, err := s.access.RequireAdmin(ctx, userID, organizationID); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByID(ctx, organizationID, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.categoryRepo.FindByName(ctx, organizationID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != category.ID {
		return nil, ErrConflict
	}

	category.Name = name
	category.Description = normalizeDescription(description)

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.invalidate(ctx, organizationID)
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, userID, organizationID, categoryID string) error {
	if _, err := s.access.RequireAdmin(ctx, userID, organizationID); err != nil {
		return err
	}

	category, err := s.categoryRepo.FindByID(ctx, organizationID, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrNotFound
	}

	if err := s.categoryRepo.Delete(ctx, organizationID, categoryID); err != nil {
		return err
	}

	s.invalidate(ctx, organizationID)
	return nil
}

func (s *categoryService) invalidate(ctx context.Context, organizationID string) {
	if s.cache != nil {
		s.cache.DeleteCache(ctx, categoryCacheKey(organizationID))
	}
}

func normalizeDescription(description string) *string {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil
	}
	return &description
}
