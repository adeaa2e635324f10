package repos

import (
	"errors"
	"strings"

	"lapak/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ErrStockConflict is returned when a conditional stock decrement finds
// fewer units than requested. The service layer wraps it with the product
// name for the caller.
var ErrStockConflict = errors.New("stock conflict")

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, seller_id, sku, name, description, category, price, stock,
    image_url, variants_json, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) Insert(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id,seller_id,sku,name,description,category,price,stock,image_url,variants_json)
	  VALUES(?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.SellerID, p.SKU, p.Name, p.Description, p.Category, p.Price, p.Stock, p.ImageURL, p.VariantsJSON)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products
	  SET name=?, description=?, category=?, price=?, stock=?, image_url=?, variants_json=?,
	      updated_at=CURRENT_TIMESTAMP
	  WHERE id=?`,
		p.Name, p.Description, p.Category, p.Price, p.Stock, p.ImageURL, p.VariantsJSON, p.ID)
	return err
}

func (r *ProductRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	return err
}

// ListFilter mirrors the public catalog query surface.
type ListFilter struct {
	Search       string
	Category     string
	SellerID     string
	MinPrice     int64 // minor units; <0 means unset
	MaxPrice     int64 // minor units; <0 means unset
	Availability string // "in-stock" | "out-of-stock" | ""
	Sort         string // newest | oldest | price_asc | price_desc
	Limit        int
	Offset       int
}

func (f ListFilter) where() (string, []any) {
	where := `1=1`
	args := []any{}
	if f.Search != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		pat := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, pat, pat)
	}
	if f.Category != "" {
		where += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.SellerID != "" {
		where += ` AND seller_id = ?`
		args = append(args, f.SellerID)
	}
	if f.MinPrice >= 0 {
		where += ` AND price >= ?`
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice >= 0 {
		where += ` AND price <= ?`
		args = append(args, f.MaxPrice)
	}
	switch f.Availability {
	case "in-stock":
		where += ` AND stock > 0`
	case "out-of-stock":
		where += ` AND stock = 0`
	}
	return where, args
}

func (f ListFilter) orderBy() string {
	switch f.Sort {
	case "newest":
		return `created_at DESC`
	case "oldest":
		return `created_at ASC`
	case "price_asc":
		return `price ASC`
	case "price_desc":
		return `price DESC`
	default:
		// in-stock products first, then newest
		return `(stock > 0) DESC, created_at DESC`
	}
}

func (r *ProductRepo) List(f ListFilter) ([]domain.Product, error) {
	where, args := f.where()
	q := `SELECT ` + productCols + ` FROM products WHERE ` + where +
		` ORDER BY ` + f.orderBy() + ` LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	var out []domain.Product
	err := r.db.Select(&out, q, args...)
	return out, err
}

func (r *ProductRepo) Count(f ListFilter) (int, error) {
	where, args := f.where()
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE `+where, args...)
	return n, err
}

// DecrementStock subtracts qty only if enough stock exists, and returns
// the remaining stock. The conditional WHERE is what keeps concurrent
// checkouts from driving stock negative: the losing transaction simply
// affects zero rows and gets ErrStockConflict.
func (r *ProductRepo) DecrementStock(tx *sqlx.Tx, productID string, qty int) (int, error) {
	res, err := tx.Exec(`
		UPDATE products SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?`, qty, productID, qty)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrStockConflict
	}
	var remaining int
	if err := tx.Get(&remaining, `SELECT stock FROM products WHERE id = ?`, productID); err != nil {
		return 0, err
	}
	return remaining, nil
}

// IncrementStock restores qty units (order cancellation).
func (r *ProductRepo) IncrementStock(tx *sqlx.Tx, productID string, qty int) error {
	_, err := tx.Exec(`
		UPDATE products SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, qty, productID)
	return err
}
