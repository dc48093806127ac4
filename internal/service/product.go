package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Skotchmaster/product_api/internal/cache"
	"github.com/Skotchmaster/product_api/internal/events"
	"github.com/Skotchmaster/product_api/internal/models"
	"github.com/Skotchmaster/product_api/internal/policy"
	"github.com/Skotchmaster/product_api/internal/search"
	"github.com/Skotchmaster/product_api/internal/transport"
)

type ProductService struct {
	DB       *gorm.DB
	Cache    cache.Store
	Log      *slog.Logger
	Producer *events.Producer
	Search   *search.Client
}

type CreateProductInput struct {
	Number      string `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type UpdateProductInput struct {
	Number      *string `json:"number"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func productCacheKey(id uint) string {
	return fmt.Sprintf("product_%d", id)
}

func (s *ProductService) List(ctx context.Context, q transport.PageQuery) (*transport.Page[transport.ProductDTO], error) {
	q.Clamp()

	query := s.DB.WithContext(ctx).Model(&models.Product{})
	if q.Search != "" {
		query = query.Where("title LIKE ?", "%"+q.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.Log.Error("count products failed", "error", err)
		return nil, err
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Limit(q.Limit).Offset(q.Offset).Find(&products).Error; err != nil {
		s.Log.Error("list products failed", "error", err)
		return nil, err
	}

	dtos := make([]transport.ProductDTO, len(products))
	for i := range products {
		dtos[i] = transport.NewProductDTO(&products[i])
	}

	return &transport.Page[transport.ProductDTO]{Items: dtos, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*transport.ProductDTO, error) {
	var product models.Product

	key := productCacheKey(id)
	if raw, err := s.Cache.Get(ctx, key); err == nil {
		if err := json.Unmarshal(raw, &product); err == nil {
			dto := transport.NewProductDTO(&product)
			return &dto, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.Log.Error("cache get failed", "key", key, "error", err)
	}

	if err := s.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.Log.Warn("product not found", "product_id", id)
			return nil, ErrNotFound
		}
		s.Log.Error("get product failed", "product_id", id, "error", err)
		return nil, err
	}

	if raw, err := json.Marshal(&product); err == nil {
		if err := s.Cache.Set(ctx, key, raw); err != nil {
			s.Log.Error("cache set failed", "key", key, "error", err)
		}
	}

	dto := transport.NewProductDTO(&product)
	return &dto, nil
}

// Create inserts a product owned by the acting principal. Any owner id the
// client may have supplied is ignored.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput, principal *models.Principal) (*transport.ProductDTO, error) {
	if err := policy.CanCreateProduct(principal); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, ErrValidation
	}

	product := models.Product{
		UserID:      principal.ID,
		Number:      in.Number,
		Title:       in.Title,
		Description: in.Description,
	}
	if err := s.DB.WithContext(ctx).Create(&product).Error; err != nil {
		s.Log.Error("create product failed", "error", err)
		return nil, err
	}

	s.Log.Info("product created", "product_id", product.ID, "owner_id", product.UserID)
	s.publish(ctx, map[string]any{"type": "product_created", "product_id": product.ID, "owner_id": product.UserID})
	s.index(ctx, &product)

	dto := transport.NewProductDTO(&product)
	return &dto, nil
}

func (s *ProductService) Update(ctx context.Context, id uint, in UpdateProductInput, principal *models.Principal) (*transport.ProductDTO, error) {
	var product models.Product
	if err := s.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.Log.Warn("product not found for update", "product_id", id)
			return nil, ErrNotFound
		}
		s.Log.Error("load product failed", "product_id", id, "error", err)
		return nil, err
	}

	if err := policy.CanMutateProduct(principal, product.UserID); err != nil {
		s.Log.Warn("forbidden product update", "product_id", id, "principal_id", principalID(principal))
		return nil, err
	}

	if in.Number != nil {
		product.Number = *in.Number
	}
	if in.Title != nil {
		product.Title = *in.Title
	}
	if in.Description != nil {
		product.Description = *in.Description
	}

	if err := s.DB.WithContext(ctx).Save(&product).Error; err != nil {
		s.Log.Error("save product failed", "product_id", id, "error", err)
		return nil, err
	}

	if err := s.Cache.Del(ctx, productCacheKey(id)); err != nil {
		s.Log.Error("cache del failed", "key", productCacheKey(id), "error", err)
	}

	s.Log.Info("product updated", "product_id", product.ID, "by", principal.ID)
	s.publish(ctx, map[string]any{"type": "product_updated", "product_id": product.ID, "owner_id": product.UserID})
	s.index(ctx, &product)

	dto := transport.NewProductDTO(&product)
	return &dto, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint, principal *models.Principal) error {
	var product models.Product
	if err := s.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.Log.Warn("product not found for delete", "product_id", id)
			return ErrNotFound
		}
		s.Log.Error("load product failed", "product_id", id, "error", err)
		return err
	}

	if err := policy.CanMutateProduct(principal, product.UserID); err != nil {
		s.Log.Warn("forbidden product delete", "product_id", id, "principal_id", principalID(principal))
		return err
	}

	if err := s.DB.WithContext(ctx).Delete(&models.Product{}, id).Error; err != nil {
		s.Log.Error("delete product failed", "product_id", id, "error", err)
		return err
	}

	if err := s.Cache.Del(ctx, productCacheKey(id)); err != nil {
		s.Log.Error("cache del failed", "key", productCacheKey(id), "error", err)
	}

	s.Log.Info("product deleted", "product_id", id, "by", principal.ID)
	s.publish(ctx, map[string]any{"type": "product_deleted", "product_id": id})
	if s.Search.Enabled() {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			s.Log.Error("search delete failed", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *ProductService) publish(ctx context.Context, event map[string]any) {
	if err := s.Producer.PublishEvent(ctx, events.TopicProductEvents, fmt.Sprint(event["product_id"]), event); err != nil {
		s.Log.Error("kafka publish failed", "error", err)
	}
}

func (s *ProductService) index(ctx context.Context, p *models.Product) {
	if !s.Search.Enabled() {
		return
	}
	if err := s.Search.IndexProduct(ctx, p); err != nil {
		s.Log.Error("search index failed", "product_id", p.ID, "error", err)
	}
}
