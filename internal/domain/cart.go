package domain

type Cart struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"userId"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt,omitempty"`
}

// CartItem is one line in a cart. VariantKey is the canonical form of
// VariantJSON and, together with (cart_id, product_id), uniquely identifies
// the line; adding the same product with an equal variant selection merges
// quantities instead of creating a second row.
type CartItem struct {
	ID          string `db:"id" json:"id"`
	CartID      string `db:"cart_id" json:"cartId"`
	ProductID   string `db:"product_id" json:"productId"`
	Quantity    int    `db:"quantity" json:"quantity"`
	VariantJSON string `db:"variant_json" json:"-"`
	VariantKey  string `db:"variant_key" json:"-"`
	CreatedAt   string `db:"created_at" json:"createdAt"`
	UpdatedAt   string `db:"updated_at" json:"updatedAt,omitempty"`
}

func (ci CartItem) Variant() (Variant, error) { return ParseVariant(ci.VariantJSON) }
