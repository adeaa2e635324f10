package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"lapak/internal/apperr"
	"lapak/internal/domain"
	"lapak/internal/repos"
)

// CartService owns the per-customer cart aggregate. Line identity is
// (product, canonical variant key): adding the same product with an equal
// variant selection merges quantities, a different selection makes a new
// line.
type CartService struct {
	Carts    *repos.CartRepo
	Products *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, products *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Products: products}
}

// Add puts quantity units of a product (with the given variant selection)
// in the customer's cart, creating the cart lazily.
func (s *CartService) Add(customerID, productID string, quantity int, variant domain.Variant) (domain.CartItem, error) {
	if quantity < 1 {
		return domain.CartItem{}, apperr.InvalidRequest("quantity must be at least 1")
	}

	p, err := s.Products.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CartItem{}, apperr.NotFound("product not found")
		}
		return domain.CartItem{}, err
	}
	if p.Stock < quantity {
		return domain.CartItem{}, apperr.InsufficientStock(p.Name)
	}

	cart, err := s.Carts.EnsureCart(customerID)
	if err != nil {
		return domain.CartItem{}, err
	}

	key := variant.Canonical()
	existing, err := s.Carts.FindItem(cart.ID, productID, key)
	switch {
	case err == nil:
		merged := existing.Quantity + quantity
		if p.Stock < merged {
			return domain.CartItem{}, apperr.InsufficientStock(p.Name)
		}
		if err := s.Carts.SetItemQuantity(existing.ID, merged); err != nil {
			return domain.CartItem{}, err
		}
		existing.Quantity = merged
		return existing, nil

	case errors.Is(err, sql.ErrNoRows):
		it := domain.CartItem{
			ID:          uuid.NewString(),
			CartID:      cart.ID,
			ProductID:   productID,
			Quantity:    quantity,
			VariantJSON: key,
			VariantKey:  key,
		}
		if err := s.Carts.InsertItem(it); err != nil {
			return domain.CartItem{}, err
		}
		return it, nil

	default:
		return domain.CartItem{}, err
	}
}

// UpdateQuantity sets a line's quantity; zero or less deletes the line.
func (s *CartService) UpdateQuantity(itemID string, quantity int, customerID string) (domain.CartItem, error) {
	it, err := s.Carts.ItemOwned(itemID, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CartItem{}, apperr.NotFound("cart item not found")
		}
		return domain.CartItem{}, err
	}

	if quantity <= 0 {
		if err := s.Carts.DeleteItem(it.ID); err != nil {
			return domain.CartItem{}, err
		}
		it.Quantity = 0
		return it, nil
	}

	p, err := s.Products.Get(it.ProductID)
	if err != nil {
		return domain.CartItem{}, err
	}
	if p.Stock < quantity {
		return domain.CartItem{}, apperr.InsufficientStock(p.Name)
	}
	if err := s.Carts.SetItemQuantity(it.ID, quantity); err != nil {
		return domain.CartItem{}, err
	}
	it.Quantity = quantity
	return it, nil
}

// Remove is an ownership-checked hard delete.
func (s *CartService) Remove(itemID, customerID string) error {
	it, err := s.Carts.ItemOwned(itemID, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("cart item not found")
		}
		return err
	}
	return s.Carts.DeleteItem(it.ID)
}

// CartLine is a display line: live product data plus the decoded variant
// selection.
type CartLine struct {
	repos.Line
	SelectedVariant domain.Variant `json:"selectedVariant"`
	Subtotal        int64          `json:"subtotal"`
}

type CartView struct {
	Cart  domain.Cart `json:"cart"`
	Items []CartLine  `json:"items"`
	Total int64       `json:"total"`
}

// List always returns a cart; a customer who never added anything gets an
// empty-items view, never an error.
func (s *CartService) List(customerID string) (CartView, error) {
	cart, err := s.Carts.EnsureCart(customerID)
	if err != nil {
		return CartView{}, err
	}
	lines, err := s.Carts.Lines(cart.ID)
	if err != nil {
		return CartView{}, err
	}

	view := CartView{Cart: cart, Items: make([]CartLine, 0, len(lines))}
	for _, ln := range lines {
		v, err := ln.Variant()
		if err != nil {
			return CartView{}, err
		}
		sub := ln.Price * int64(ln.Quantity)
		view.Items = append(view.Items, CartLine{Line: ln, SelectedVariant: v, Subtotal: sub})
		view.Total += sub
	}
	return view, nil
}
