package service

import (
	"context"
	"errors"

	"github.com/ozhegov/product-api/internal/models"
	"github.com/ozhegov/product-api/internal/repo"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) GetProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.GetProducts(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.Price < 0 {
		return errors.New("price cannot be negative")
	}
	return s.Repo.CreateProduct(ctx, product)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if product.Price < 0 {
		return errors.New("price cannot be negative")
	}
	return s.Repo.UpdateProduct(ctx, product)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	return s.Repo.DeleteProduct(ctx, id)
}
