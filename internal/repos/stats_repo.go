package repos

import (
	"time"

	"github.com/jmoiron/sqlx"

	"lapak/internal/domain"
)

// StatsRepo answers read-only rollup queries over order history for the
// seller dashboard and the weekly report. Revenue always excludes
// cancelled orders and is computed from order_items snapshots.
type StatsRepo struct{ db *sqlx.DB }

func NewStatsRepo(db *sqlx.DB) *StatsRepo { return &StatsRepo{db: db} }

// sqliteTime formats a cutoff the way CURRENT_TIMESTAMP stores it.
func sqliteTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// Revenue sums price*quantity over the seller's non-cancelled order items
// created at or after since. A zero since means all time.
func (r *StatsRepo) Revenue(sellerID string, since time.Time) (int64, error) {
	q := `
		SELECT COALESCE(SUM(oi.price * oi.quantity), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.seller_id = ? AND o.status != ?`
	args := []any{sellerID, domain.StatusCancelled}
	if !since.IsZero() {
		q += ` AND datetime(o.created_at) >= datetime(?)`
		args = append(args, sqliteTime(since))
	}
	var total int64
	err := r.db.Get(&total, q, args...)
	return total, err
}

// OrderCount counts distinct non-cancelled orders in the window.
func (r *StatsRepo) OrderCount(sellerID string, since time.Time) (int, error) {
	q := `SELECT COUNT(*) FROM orders WHERE seller_id = ? AND status != ?`
	args := []any{sellerID, domain.StatusCancelled}
	if !since.IsZero() {
		q += ` AND datetime(created_at) >= datetime(?)`
		args = append(args, sqliteTime(since))
	}
	var n int
	err := r.db.Get(&n, q, args...)
	return n, err
}

type ProductSales struct {
	ProductID string `db:"product_id" json:"productId"`
	Name      string `db:"name" json:"name"`
	Sold      int    `db:"sold" json:"sold"`
	Revenue   int64  `db:"revenue" json:"revenue"`
}

func (r *StatsRepo) TopProducts(sellerID string, limit int) ([]ProductSales, error) {
	var out []ProductSales
	err := r.db.Select(&out, `
		SELECT oi.product_id, p.name,
		       SUM(oi.quantity) AS sold,
		       SUM(oi.price * oi.quantity) AS revenue
		FROM order_items oi
		JOIN orders o   ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.seller_id = ? AND o.status != ?
		GROUP BY oi.product_id, p.name
		ORDER BY sold DESC, revenue DESC
		LIMIT ?`, sellerID, domain.StatusCancelled, limit)
	return out, err
}

type statusCount struct {
	Status domain.OrderStatus `db:"status"`
	N      int                `db:"n"`
}

// StatusBreakdown counts the seller's orders per lifecycle status; every
// status appears in the result, zero-filled.
func (r *StatsRepo) StatusBreakdown(sellerID string) (map[domain.OrderStatus]int, error) {
	var rows []statusCount
	err := r.db.Select(&rows, `
		SELECT status, COUNT(*) AS n FROM orders
		WHERE seller_id = ? GROUP BY status`, sellerID)
	if err != nil {
		return nil, err
	}
	out := map[domain.OrderStatus]int{
		domain.StatusPending:    0,
		domain.StatusProcessing: 0,
		domain.StatusShipped:    0,
		domain.StatusDelivered:  0,
		domain.StatusCancelled:  0,
	}
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
