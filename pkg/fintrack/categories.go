package fintrack

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// categoryService implements the CategoryService interface
type categoryService struct {
	client *Client
}

func (s *categoryService) List(ctx context.Context) ([]Category, error) {
	state, err := s.client.current()
	if err != nil {
		return nil, err
	}
	return cloneSlice(state.Categories), nil
}

func (s *categoryService) ByType(ctx context.Context, typ TransactionType) ([]Category, error) {
	state, err := s.client.current()
	if err != nil {
		return nil, err
	}
	var out []Category
	for _, c := range state.Categories {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *categoryService) Get(ctx context.Context, categoryID string) (*Category, error) {
	state, err := s.client.current()
	if err != nil {
		return nil, err
	}
	i := indexOf(state.Categories, categoryID, categoryKey)
	if i < 0 {
		return nil, errors.Wrapf(ErrNotFound, "category %s", categoryID)
	}
	c := state.Categories[i]
	return &c, nil
}

func (s *categoryService) Resolve(ctx context.Context, categoryID string) (Category, error) {
	state, err := s.client.current()
	if err != nil {
		return Category{}, err
	}
	return resolveCategory(state.Categories, categoryID), nil
}

func (s *categoryService) Create(ctx context.Context, params *CreateCategoryParams) (*Category, error) {
	if params == nil {
		params = &CreateCategoryParams{}
	}

	var created Category
	_, err := s.client.mutate(ctx, func(FinanceState) (Intent, error) {
		created = Category{
			ID:    s.client.newID(),
			Name:  strings.TrimSpace(params.Name),
			Type:  params.Type,
			Color: params.Color,
		}
		if created.Color == "" {
			created.Color = UncategorizedColor
		}
		if err := validateCategory(created); err != nil {
			return nil, err
		}
		return AddCategory{Category: created}, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *categoryService) Update(ctx context.Context, categoryID string, params *UpdateCategoryParams) (*Category, error) {
	if params == nil {
		params = &UpdateCategoryParams{}
	}

	var updated Category
	_, err := s.client.mutate(ctx, func(state FinanceState) (Intent, error) {
		i := indexOf(state.Categories, categoryID, categoryKey)
		if i < 0 {
			return nil, errors.Wrapf(ErrNotFound, "category %s", categoryID)
		}

		c := state.Categories[i]
		if params.Name != nil {
			c.Name = strings.TrimSpace(*params.Name)
		}
		if params.Color != nil && *params.Color != "" {
			c.Color = *params.Color
		}
		if err := validateCategory(c); err != nil {
			return nil, err
		}
		updated = c
		return UpdateCategory{Category: c}, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *categoryService) Delete(ctx context.Context, categoryID string) error {
	_, err := s.client.dispatch(ctx, DeleteCategory{ID: categoryID})
	return err
}

// resolveCategory falls back to Uncategorized for unknown IDs
func resolveCategory(categories []Category, id string) Category {
	if i := indexOf(categories, id, categoryKey); i >= 0 {
		return categories[i]
	}
	return Uncategorized
}
