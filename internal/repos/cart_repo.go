package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lapak/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

const cartItemCols = `id, cart_id, product_id, quantity, variant_json, variant_key,
    created_at, COALESCE(updated_at,'') AS updated_at`

// EnsureCart returns the customer's cart, creating it on first use.
func (r *CartRepo) EnsureCart(userID string) (domain.Cart, error) {
	var c domain.Cart
	err := r.db.Get(&c, `
		SELECT id, user_id, created_at, COALESCE(updated_at,'') AS updated_at
		FROM carts WHERE user_id = ?`, userID)
	if err == nil {
		return c, nil
	}
	id := uuid.NewString()
	if _, err := r.db.Exec(`INSERT INTO carts(id,user_id) VALUES(?,?)`, id, userID); err != nil {
		return domain.Cart{}, err
	}
	return r.EnsureCart(userID)
}

// FindItem looks up the line with an equal canonical variant key. Callers
// get sql.ErrNoRows when no matching line exists.
func (r *CartRepo) FindItem(cartID, productID, variantKey string) (domain.CartItem, error) {
	var it domain.CartItem
	err := r.db.Get(&it, `
		SELECT `+cartItemCols+` FROM cart_items
		WHERE cart_id = ? AND product_id = ? AND variant_key = ?`,
		cartID, productID, variantKey)
	return it, err
}

func (r *CartRepo) InsertItem(it domain.CartItem) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(id,cart_id,product_id,quantity,variant_json,variant_key)
		VALUES(?,?,?,?,?,?)`,
		it.ID, it.CartID, it.ProductID, it.Quantity, it.VariantJSON, it.VariantKey)
	return err
}

func (r *CartRepo) SetItemQuantity(itemID string, qty int) error {
	_, err := r.db.Exec(`
		UPDATE cart_items SET quantity = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		qty, itemID)
	return err
}

// ItemOwned fetches a cart item only if its cart belongs to userID;
// sql.ErrNoRows otherwise (absence and foreign ownership look the same to
// the caller).
func (r *CartRepo) ItemOwned(itemID, userID string) (domain.CartItem, error) {
	var it domain.CartItem
	err := r.db.Get(&it, `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.variant_json, ci.variant_key,
		       ci.created_at, COALESCE(ci.updated_at,'') AS updated_at
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		WHERE ci.id = ? AND c.user_id = ?`, itemID, userID)
	return it, err
}

func (r *CartRepo) DeleteItem(itemID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE id = ?`, itemID)
	return err
}

// Line is a cart item enriched with live product data for display.
type Line struct {
	domain.CartItem
	ProductName string `db:"product_name" json:"productName"`
	Price       int64  `db:"price" json:"price"`
	Stock       int    `db:"stock" json:"stock"`
	ImageURL    string `db:"image_url" json:"imageUrl"`
	SellerID    string `db:"seller_id" json:"sellerId"`
	StoreName   string `db:"store_name" json:"storeName"`
}

func (r *CartRepo) Lines(cartID string) ([]Line, error) {
	var out []Line
	err := r.db.Select(&out, `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.variant_json, ci.variant_key,
		       ci.created_at, COALESCE(ci.updated_at,'') AS updated_at,
		       p.name AS product_name, p.price, p.stock, p.image_url,
		       p.seller_id, u.store_name
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		JOIN users u    ON u.id = p.seller_id
		WHERE ci.cart_id = ?
		ORDER BY ci.created_at DESC`, cartID)
	return out, err
}

// CheckoutLine is a resolved cart item inside the checkout transaction:
// the line plus the product and its owning seller, read under the tx.
type CheckoutLine struct {
	ItemID      string `db:"item_id"`
	ProductID   string `db:"product_id"`
	Quantity    int    `db:"quantity"`
	VariantJSON string `db:"variant_json"`
	ProductName string `db:"product_name"`
	Price       int64  `db:"price"`
	Stock       int    `db:"stock"`
	SellerID    string `db:"seller_id"`
	SellerName  string `db:"seller_name"`
	SellerEmail string `db:"seller_email"`
}

// ResolveForCheckout loads the named cart items with product and owner,
// restricted to carts owned by userID. Items that don't exist or aren't
// the customer's are silently absent from the result.
func (r *CartRepo) ResolveForCheckout(tx *sqlx.Tx, userID string, itemIDs []string) ([]CheckoutLine, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`
		SELECT ci.id AS item_id, ci.product_id, ci.quantity, ci.variant_json,
		       p.name AS product_name, p.price, p.stock,
		       p.seller_id, u.name AS seller_name, u.email AS seller_email
		FROM cart_items ci
		JOIN carts c    ON c.id = ci.cart_id
		JOIN products p ON p.id = ci.product_id
		JOIN users u    ON u.id = p.seller_id
		WHERE ci.id IN (?) AND c.user_id = ?`, itemIDs, userID)
	if err != nil {
		return nil, err
	}
	var out []CheckoutLine
	err = tx.Select(&out, query, args...)
	return out, err
}

// DeleteItems removes consumed lines inside the checkout transaction.
func (r *CartRepo) DeleteItems(tx *sqlx.Tx, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM cart_items WHERE id IN (?)`, itemIDs)
	if err != nil {
		return err
	}
	_, err = tx.Exec(query, args...)
	return err
}
