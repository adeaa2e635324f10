package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"lapak/internal/apperr"
	"lapak/internal/domain"
	"lapak/internal/notify"
	"lapak/internal/repos"
)

// CatalogService is the seller-facing product CRUD plus the public
// browse surface.
type CatalogService struct {
	Products *repos.ProductRepo
	Users    *repos.UserRepo
	Notifier notify.Notifier

	LowStockThreshold int
}

func NewCatalogService(products *repos.ProductRepo, users *repos.UserRepo,
	n notify.Notifier, lowStock int) *CatalogService {
	return &CatalogService{Products: products, Users: users, Notifier: n, LowStockThreshold: lowStock}
}

type ProductInput struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Price       int64                `json:"price"`
	Stock       int                  `json:"stock"`
	ImageURL    string               `json:"imageUrl"`
	Variants    domain.VariantSchema `json:"variants"`
}

func (s *CatalogService) Create(sellerID string, in ProductInput) (domain.Product, error) {
	if in.Name == "" {
		return domain.Product{}, apperr.InvalidRequest("product name is required")
	}
	if in.Price < 0 {
		return domain.Product{}, apperr.InvalidRequest("price must not be negative")
	}
	if in.Stock < 0 {
		return domain.Product{}, apperr.InvalidRequest("stock must not be negative")
	}

	variants := "{}"
	if len(in.Variants) > 0 {
		b, err := json.Marshal(in.Variants)
		if err != nil {
			return domain.Product{}, err
		}
		variants = string(b)
	}

	p := domain.Product{
		ID:           uuid.NewString(),
		SellerID:     sellerID,
		SKU:          newSKU(),
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		Price:        in.Price,
		Stock:        in.Stock,
		ImageURL:     in.ImageURL,
		VariantsJSON: variants,
	}
	if err := s.Products.Insert(p); err != nil {
		return domain.Product{}, err
	}
	return s.Products.Get(p.ID)
}

// UpdateInput patches only the fields that are set.
type UpdateInput struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Category    *string               `json:"category"`
	Price       *int64                `json:"price"`
	Stock       *int                  `json:"stock"`
	ImageURL    *string               `json:"imageUrl"`
	Variants    *domain.VariantSchema `json:"variants"`
}

// Update applies a partial edit after the ownership check. A manual stock
// edit that lands at or below the low-stock threshold alerts the seller,
// same as a checkout decrement would.
func (s *CatalogService) Update(productID, sellerID string, in UpdateInput) (domain.Product, error) {
	p, err := s.owned(productID, sellerID, "edit")
	if err != nil {
		return domain.Product{}, err
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return domain.Product{}, apperr.InvalidRequest("price must not be negative")
		}
		p.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return domain.Product{}, apperr.InvalidRequest("stock must not be negative")
		}
		p.Stock = *in.Stock
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.Variants != nil {
		b, err := json.Marshal(*in.Variants)
		if err != nil {
			return domain.Product{}, err
		}
		p.VariantsJSON = string(b)
	}

	if err := s.Products.Update(p); err != nil {
		return domain.Product{}, err
	}

	if in.Stock != nil && p.Stock <= s.LowStockThreshold {
		if seller, err := s.Users.ByID(sellerID); err == nil {
			notify.Dispatch(s.Notifier, []notify.Event{{
				Kind:      notify.KindLowStockAlert,
				Recipient: seller.Email,
				Payload: map[string]any{
					"sellerName":  seller.Name,
					"productName": p.Name,
					"stock":       p.Stock,
				},
			}})
		}
	}

	return s.Products.Get(productID)
}

func (s *CatalogService) Delete(productID, sellerID string) error {
	if _, err := s.owned(productID, sellerID, "delete"); err != nil {
		return err
	}
	return s.Products.Delete(productID)
}

func (s *CatalogService) owned(productID, sellerID, verb string) (domain.Product, error) {
	p, err := s.Products.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, apperr.NotFound("product not found")
		}
		return domain.Product{}, err
	}
	if p.SellerID != sellerID {
		return domain.Product{}, apperr.Forbidden("you may not %s this product", verb)
	}
	return p, nil
}

func (s *CatalogService) Get(productID string) (domain.Product, error) {
	p, err := s.Products.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, apperr.NotFound("product not found")
		}
		return domain.Product{}, err
	}
	return p, nil
}

type ProductPage struct {
	Products []domain.Product `json:"data"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Pages    int              `json:"lastPage"`
}

func (s *CatalogService) List(f repos.ListFilter, page int) (ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
	f.Offset = (page - 1) * f.Limit

	products, err := s.Products.List(f)
	if err != nil {
		return ProductPage{}, err
	}
	total, err := s.Products.Count(f)
	if err != nil {
		return ProductPage{}, err
	}
	pages := (total + f.Limit - 1) / f.Limit
	return ProductPage{Products: products, Total: total, Page: page, Pages: pages}, nil
}

func newSKU() string {
	return fmt.Sprintf("SKU-%d-%03d", time.Now().UnixMilli(), rand.Intn(1000))
}
