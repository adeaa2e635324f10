package repos

import (
	"github.com/jmoiron/sqlx"

	"lapak/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// HasDeliveredPurchase reports whether the customer has at least one
// order item for the product on a DELIVERED order — the review gate.
func (r *ReviewRepo) HasDeliveredPurchase(tx *sqlx.Tx, userID, productID string) (bool, error) {
	var n int
	err := tx.Get(&n, `
		SELECT COUNT(*) FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.product_id = ? AND o.user_id = ? AND o.status = ?`,
		productID, userID, domain.StatusDelivered)
	return n > 0, err
}

func (r *ReviewRepo) Exists(tx *sqlx.Tx, userID, productID string) (bool, error) {
	var n int
	err := tx.Get(&n, `SELECT COUNT(*) FROM reviews WHERE user_id = ? AND product_id = ?`,
		userID, productID)
	return n > 0, err
}

func (r *ReviewRepo) Insert(tx *sqlx.Tx, rev domain.Review) error {
	_, err := tx.Exec(`
		INSERT INTO reviews(id, user_id, product_id, rating, comment)
		VALUES(?,?,?,?,?)`,
		rev.ID, rev.UserID, rev.ProductID, rev.Rating, rev.Comment)
	return err
}

// ReviewView adds the reviewer's display name.
type ReviewView struct {
	domain.Review
	ReviewerName string `db:"reviewer_name" json:"reviewerName"`
}

func (r *ReviewRepo) ListByProduct(productID string) ([]ReviewView, error) {
	var out []ReviewView
	err := r.db.Select(&out, `
		SELECT rv.id, rv.user_id, rv.product_id, rv.rating, rv.comment, rv.created_at,
		       u.name AS reviewer_name
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.product_id = ?
		ORDER BY datetime(rv.created_at) DESC`, productID)
	return out, err
}
