package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/acme_store/internal/apperr"
	"github.com/Skotchmaster/acme_store/internal/logging"
	"github.com/Skotchmaster/acme_store/internal/models"
	"github.com/Skotchmaster/acme_store/internal/mykafka"
	"github.com/Skotchmaster/acme_store/internal/repo"
)

// ProductIndex is a full text index over the catalog.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p models.Product) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type CatalogService struct {
	Repo     *repo.GormRepo
	Index    ProductIndex
	Producer mykafka.Publisher
}

// CreateProduct stores product, indexes it when an index is configured and
// announces it on the products topic. Index and publish failures are logged;
// the row is the source of truth.
func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	switch {
	case product.Name == "":
		return fmt.Errorf("%w: name is required", apperr.ErrValidation)
	case len(product.Name) > 50:
		return fmt.Errorf("%w: name must be at most 50 characters", apperr.ErrValidation)
	case len(product.Description) > 255:
		return fmt.Errorf("%w: description must be at most 255 characters", apperr.ErrValidation)
	case product.Price.IsNegative():
		return fmt.Errorf("%w: price cannot be negative", apperr.ErrValidation)
	case product.Inventory < 0:
		return fmt.Errorf("%w: inventory cannot be negative", apperr.ErrValidation)
	}

	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return classify(err, "product")
	}

	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, *product); err != nil {
			logging.FromContext(ctx).Warn("index_product_error", "product_id", product.ID, "error", err)
		}
	}

	if s.Producer != nil {
		ev := mykafka.ProductCreated{
			Type:      "product_created",
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			At:        time.Now().UTC(),
		}
		if err := s.Producer.PublishEvent(ctx, mykafka.TopicProducts, product.ID.String(), ev); err != nil {
			logging.FromContext(ctx).Error("kafka_publish_error",
				"topic", mykafka.TopicProducts, "product_id", product.ID, "error", err)
		}
	}
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, classify(err, "products")
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, classify(err, "product "+id.String())
	}
	return product, nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	if s.Index == nil {
		return 0, nil, fmt.Errorf("%w: search is disabled", apperr.ErrUnavailable)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, fmt.Errorf("%w: query is required", apperr.ErrValidation)
	}
	if from < 0 || size <= 0 {
		return 0, nil, fmt.Errorf("%w: bad paging", apperr.ErrValidation)
	}

	total, products, err := s.Index.Search(ctx, query, from, size)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: search: %w", apperr.ErrInternal, err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return total, products, nil
}
