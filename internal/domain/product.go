package domain

// Product prices are integer minor units (e.g. cents); floats never touch
// money anywhere in the codebase.
type Product struct {
	ID           string `db:"id" json:"id"`
	SellerID     string `db:"seller_id" json:"sellerId"`
	SKU          string `db:"sku" json:"sku"`
	Name         string `db:"name" json:"name"`
	Description  string `db:"description" json:"description"`
	Category     string `db:"category" json:"category"`
	Price        int64  `db:"price" json:"price"`
	Stock        int    `db:"stock" json:"stock"`
	ImageURL     string `db:"image_url" json:"imageUrl"`
	VariantsJSON string `db:"variants_json" json:"-"`
	CreatedAt    string `db:"created_at" json:"createdAt"`
	UpdatedAt    string `db:"updated_at" json:"updatedAt,omitempty"`
}

// Variants decodes the stored variant schema; a product without variants
// returns an empty schema.
func (p Product) Variants() (VariantSchema, error) {
	return ParseVariantSchema(p.VariantsJSON)
}
