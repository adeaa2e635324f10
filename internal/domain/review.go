package domain

// Review is append-only and gated: one per (customer, product), and only
// after a DELIVERED order containing that product.
type Review struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"userId"`
	ProductID string `db:"product_id" json:"productId"`
	Rating    int    `db:"rating" json:"rating"`
	Comment   string `db:"comment" json:"comment"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}
