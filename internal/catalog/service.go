// Package catalog serves the product storefront and the admin product and
// example listings.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/utils"
)

type Store interface {
	ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error

	ListExamples(ctx context.Context, activeOnly bool) ([]models.Example, error)
	GetExample(ctx context.Context, id string) (*models.Example, error)
	CreateExample(ctx context.Context, e *models.Example) error
	UpdateExample(ctx context.Context, e *models.Example) error
	DeleteExample(ctx context.Context, id string) error
}

type Service struct {
	Store  Store
	Logger *logger.Logger
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{Store: store, Logger: log}
}

// dedupeKey collapses products that were entered twice.
func dedupeKey(p *models.Product) string {
	image := ""
	if p.ImageURL != nil {
		image = *p.ImageURL
	}
	price := decimal.NewFromFloat(p.Price).StringFixed(2)
	return strings.ToLower(strings.TrimSpace(p.Name)) + "::" + price + "::" + image
}

// Storefront groups active products by category. Products keep their
// display order within a category; categories are sorted by their own order.
func (s *Service) Storefront(ctx context.Context) ([]models.StorefrontCategory, error) {
	products, err := s.Store.ListProducts(ctx, true)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(products))
	bySlug := map[string]*models.StorefrontCategory{}
	minPrice := map[string]decimal.Decimal{}
	var slugs []string

	for i := range products {
		p := &products[i]
		key := dedupeKey(p)
		if seen[key] {
			continue
		}
		seen[key] = true

		slug := InferCategory(p)
		cat, ok := bySlug[slug]
		if !ok {
			info := categoryFor(slug)
			cat = &models.StorefrontCategory{ID: slug, Label: info.Label, Colour: info.Colour, Order: info.Order}
			bySlug[slug] = cat
			slugs = append(slugs, slug)
		}

		price := decimal.NewFromFloat(p.Price)
		if current, ok := minPrice[slug]; !ok || price.LessThan(current) {
			minPrice[slug] = price
		}
		cat.Products = append(cat.Products, models.StorefrontProduct{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			Price:       p.Price,
		})
	}

	out := make([]models.StorefrontCategory, 0, len(slugs))
	for _, slug := range slugs {
		cat := bySlug[slug]
		cat.MinPrice = minPrice[slug].Round(2).InexactFloat64()
		out = append(out, *cat)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.Store.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Store.ListProducts(ctx, false)
}

func normalizeProduct(p *models.Product) error {
	p.Name = utils.SanitizeString(p.Name, 0)
	if p.Category != nil {
		c := strings.ToLower(strings.TrimSpace(*p.Category))
		if c == "" {
			p.Category = nil
		} else {
			p.Category = &c
		}
	}
	p.Price, _ = decimal.NewFromFloat(p.Price).Round(2).Float64()
	return utils.ValidateStruct(p)
}

func (s *Service) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	if err := normalizeProduct(&p); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p.ID = uuid.New().String()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := s.Store.CreateProduct(ctx, &p); err != nil {
		return nil, err
	}
	s.Logger.Info("CATALOG", fmt.Sprintf("Created product %s (%s)", p.Name, p.ID))
	return &p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, p models.Product) (*models.Product, error) {
	if err := normalizeProduct(&p); err != nil {
		return nil, err
	}
	p.ID = id
	p.UpdatedAt = time.Now().UTC()
	if err := s.Store.UpdateProduct(ctx, &p); err != nil {
		return nil, err
	}
	return s.Store.GetProduct(ctx, id)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("CATALOG", fmt.Sprintf("Deleted product %s", id))
	return nil
}

func (s *Service) PublicExamples(ctx context.Context) ([]models.Example, error) {
	return s.Store.ListExamples(ctx, true)
}

func (s *Service) ListExamples(ctx context.Context) ([]models.Example, error) {
	return s.Store.ListExamples(ctx, false)
}

func (s *Service) CreateExample(ctx context.Context, e models.Example) (*models.Example, error) {
	e.Title = utils.SanitizeString(e.Title, 0)
	if err := utils.ValidateStruct(&e); err != nil {
		return nil, err
	}
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC()
	if err := s.Store.CreateExample(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) UpdateExample(ctx context.Context, id string, e models.Example) (*models.Example, error) {
	e.Title = utils.SanitizeString(e.Title, 0)
	if err := utils.ValidateStruct(&e); err != nil {
		return nil, err
	}
	e.ID = id
	if err := s.Store.UpdateExample(ctx, &e); err != nil {
		return nil, err
	}
	return s.Store.GetExample(ctx, id)
}

func (s *Service) DeleteExample(ctx context.Context, id string) error {
	return s.Store.DeleteExample(ctx, id)
}
