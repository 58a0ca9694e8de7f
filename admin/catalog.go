package admin

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

const (
	bannersPath       = "/admin/banners"
	brandsPath        = "/admin/manufacturers"
	categoriesPath    = "/admin/categories"
	subcategoriesPath = "/admin/subcategories"
	productsPath      = "/admin/products"
)

var errMissingID = errors.New("id is required")

func (s *Service) ListBanners(ctx context.Context) ([]Banner, error) {
	var out []Banner
	if err := s.get(ctx, bannersPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) CreateBanner(ctx context.Context, in BannerInput) (*Created, error) {
	if in.Image == nil || *in.Image == "" {
		return nil, errors.New("banner image is required")
	}
	var out Created
	if err := s.send(ctx, http.MethodPost, bannersPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) UpdateBanner(ctx context.Context, id string, in BannerInput) error {
	if id == "" {
		return errMissingID
	}
	return s.send(ctx, http.MethodPatch, itemPath(bannersPath, id), in, nil)
}

func (s *Service) DeleteBanner(ctx context.Context, id string) error {
	if id == "" {
		return errMissingID
	}
	return s.send(ctx, http.MethodDelete, itemPath(bannersPath, id), nil, nil)
}

func (s *Service) ListBrands(ctx context.Context) ([]Brand, error) {
	var out []Brand
	if err := s.get(ctx, brandsPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) CreateBrand(ctx context.Context, in BrandInput) (*Created, error) {
	if in.Name == nil || *in.Name == "" || in.Slug == nil || *in.Slug == "" {
		return nil, errors.New("brand name and slug are required")
	}
	var out Created
	if err := s.send(ctx, http.MethodPost, brandsPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) UpdateBrand(ctx context.Context, id string, in BrandInput) error {
	if id == "" {
		return errMissingID
	}
	return s.send(ctx, http.MethodPatch, itemPath(brandsPath, id), in, nil)
}

func (s *Service) DeleteBrand(ctx context.Context, id string) error {
	if id == "" {
		return errMissingID
	}
	return s.send(ctx, http.MethodDelete, itemPath(brandsPath, id), nil, nil)
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := s.get(ctx, categoriesPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*Created, error) {
	if in.Name == nil || *in.Name == "" || in.Slug == nil || *in.Slug == "" {
		return nil, errors.New("category name and slug are required")
	}
	var out Created
	if err := s.send(ctx, http.MethodPost, categoriesPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, in CategoryInput) error {
	if id == "" {
		return errMissingID
	}
	return s.send(ctx, http.MethodPatch, itemPath(categoriesPath, id), in, nil)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if id == "" {
		return errMissingID
	}
	return s.send(ctx, http.MethodDelete, itemPath(categoriesPath, id), nil, nil)
}

// ListSubcategories lists all subcategories, or those of categoryID when non-empty.
func (s *Service) ListSubcategories(ctx context.Context, categoryID string) ([]Subcategory, error) {
	var query url.Values
	if categoryID != "" {
		query = url.Values{"categoryId": {categoryID}}
	}
	var out []Subcategory
	if err := s.get(ctx, subcategoriesPath, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetSubcategory(ctx context.Context, id string) (*Subcategory, error) {
	if id == "" {
		return nil, errMissingID
	}
	var out Subcategory
	if err := s.get(ctx, itemPath(subcategoriesPath, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) CreateSubcategory(ctx context.Context, in SubcategoryInput) (*Created, error) {
	if in.Name == nil || *in.Name == "" || in.Slug == nil || *in.Slug == "" ||
		in.CategoryID == nil || *in.CategoryID == "" {
		return nil, errors.New("subcategory name, slug and category are required")
	}
	var out Created
	if err := s.send(ctx, http.MethodPost, subcategoriesPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) UpdateSubcategory(ctx context.Context, id string, in SubcategoryInput) error {
	if id == "" {
		return errMissingID
	}
	return s.send(ctx, http.MethodPatch, itemPath(subcategoriesPath, id), in, nil)
}

func (s *Service) DeleteSubcategory(ctx context.Context, id string) error {
	if id == "" {
		return errMissingID
	}
	return s.send(ctx, http.MethodDelete, itemPath(subcategoriesPath, id), nil, nil)
}

// ListProducts returns the product page. Total falls back to the item count when the
// backend leaves it out.
func (s *Service) ListProducts(ctx context.Context) (*ProductPage, error) {
	var out ProductPage
	if err := s.get(ctx, productsPath, nil, &out); err != nil {
		return nil, err
	}
	if out.Total == 0 {
		out.Total = len(out.Items)
	}
	return &out, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		return nil, errMissingID
	}
	var out Product
	if err := s.get(ctx, itemPath(productsPath, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
