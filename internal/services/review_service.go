package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lapak/internal/apperr"
	"lapak/internal/domain"
	"lapak/internal/repos"
)

// ReviewService enforces the review gate at write time: only customers
// with a DELIVERED order for the product may review, once.
type ReviewService struct {
	DB       *sqlx.DB
	Reviews  *repos.ReviewRepo
	Products *repos.ProductRepo
}

func NewReviewService(db *sqlx.DB, reviews *repos.ReviewRepo, products *repos.ProductRepo) *ReviewService {
	return &ReviewService{DB: db, Reviews: reviews, Products: products}
}

func (s *ReviewService) Create(customerID, productID string, rating int, comment string) (domain.Review, error) {
	if rating < 1 || rating > 5 {
		return domain.Review{}, apperr.InvalidRequest("rating must be between 1 and 5")
	}
	if _, err := s.Products.Get(productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Review{}, apperr.NotFound("product not found")
		}
		return domain.Review{}, err
	}

	rev := domain.Review{
		ID:        uuid.NewString(),
		UserID:    customerID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	}

	// Gate and duplicate check happen in the same tx as the insert, so a
	// racing duplicate loses to the unique index rather than slipping in.
	err := repos.InTx(s.DB, func(tx *sqlx.Tx) error {
		delivered, err := s.Reviews.HasDeliveredPurchase(tx, customerID, productID)
		if err != nil {
			return err
		}
		if !delivered {
			return apperr.InvalidState("you can only review products from delivered orders")
		}
		exists, err := s.Reviews.Exists(tx, customerID, productID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.InvalidRequest("you have already reviewed this product")
		}
		return s.Reviews.Insert(tx, rev)
	})
	if err != nil {
		return domain.Review{}, err
	}
	return rev, nil
}

func (s *ReviewService) ListByProduct(productID string) ([]repos.ReviewView, error) {
	return s.Reviews.ListByProduct(productID)
}
