package repos

import (
	"github.com/jmoiron/sqlx"

	"lapak/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `id, order_number, user_id, seller_id, total_price, shipping_address,
    payment_method, status, created_at,
    COALESCE(processed_at,'') AS processed_at,
    COALESCE(shipped_at,'')   AS shipped_at,
    COALESCE(delivered_at,'') AS delivered_at,
    COALESCE(cancelled_at,'') AS cancelled_at`

func (r *OrderRepo) Insert(tx *sqlx.Tx, o domain.Order) error {
	_, err := tx.Exec(`
	  INSERT INTO orders(id, order_number, user_id, seller_id, total_price,
	                     shipping_address, payment_method, status)
	  VALUES(?,?,?,?,?,?,?,?)`,
		o.ID, o.OrderNumber, o.UserID, o.SellerID, o.TotalPrice,
		o.ShippingAddress, o.PaymentMethod, o.Status)
	return err
}

func (r *OrderRepo) InsertItem(tx *sqlx.Tx, it domain.OrderItem) error {
	_, err := tx.Exec(`
	  INSERT INTO order_items(id, order_id, product_id, quantity, price, variant_json)
	  VALUES(?,?,?,?,?,?)`,
		it.ID, it.OrderID, it.ProductID, it.Quantity, it.Price, it.VariantJSON)
	return err
}

func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, orderID)
	return o, err
}

// ItemView is an order item joined with its product's current name for
// display; price and variant stay the snapshot taken at checkout.
type ItemView struct {
	domain.OrderItem
	ProductName string `db:"product_name" json:"productName"`
	ImageURL    string `db:"image_url" json:"imageUrl"`
}

func (r *OrderRepo) Items(orderID string) ([]ItemView, error) {
	var out []ItemView
	err := r.db.Select(&out, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, oi.variant_json,
		       p.name AS product_name, p.image_url
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY p.name`, orderID)
	return out, err
}

// ItemsTx reads the raw items under a transaction (cancellation restock).
func (r *OrderRepo) ItemsTx(tx *sqlx.Tx, orderID string) ([]domain.OrderItem, error) {
	var out []domain.OrderItem
	err := tx.Select(&out, `
		SELECT id, order_id, product_id, quantity, price, variant_json
		FROM order_items WHERE order_id = ?`, orderID)
	return out, err
}

// statusStamp maps a status to the timestamp column it sets. COALESCE in
// UpdateStatus keeps each stamp write-once.
var statusStamp = map[domain.OrderStatus]string{
	domain.StatusProcessing: "processed_at",
	domain.StatusShipped:    "shipped_at",
	domain.StatusDelivered:  "delivered_at",
	domain.StatusCancelled:  "cancelled_at",
}

func (r *OrderRepo) UpdateStatus(tx *sqlx.Tx, orderID string, status domain.OrderStatus) error {
	col, ok := statusStamp[status]
	if !ok {
		_, err := tx.Exec(`UPDATE orders SET status=? WHERE id=?`, status, orderID)
		return err
	}
	_, err := tx.Exec(`
		UPDATE orders SET status=?, `+col+` = COALESCE(`+col+`, CURRENT_TIMESTAMP)
		WHERE id=?`, status, orderID)
	return err
}

// OrderFilter narrows a customer's order history.
type OrderFilter struct {
	Status string // "" or "ALL" means any
	Limit  int
	Offset int
}

func (r *OrderRepo) ListByUser(userID string, f OrderFilter) ([]domain.Order, error) {
	q := `SELECT ` + orderCols + ` FROM orders WHERE user_id = ?`
	args := []any{userID}
	if f.Status != "" && f.Status != "ALL" {
		q += ` AND status = ?`
		args = append(args, f.Status)
	}
	q += ` ORDER BY datetime(created_at) DESC, order_number DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	var out []domain.Order
	err := r.db.Select(&out, q, args...)
	return out, err
}

func (r *OrderRepo) CountByUser(userID string, f OrderFilter) (int, error) {
	q := `SELECT COUNT(*) FROM orders WHERE user_id = ?`
	args := []any{userID}
	if f.Status != "" && f.Status != "ALL" {
		q += ` AND status = ?`
		args = append(args, f.Status)
	}
	var n int
	err := r.db.Get(&n, q, args...)
	return n, err
}

func (r *OrderRepo) ListBySeller(sellerID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT `+orderCols+` FROM orders
		WHERE seller_id = ?
		ORDER BY datetime(created_at) DESC, order_number DESC`, sellerID)
	return out, err
}
