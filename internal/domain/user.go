package domain

const (
	RoleCustomer = "CUSTOMER"
	RoleSeller   = "SELLER"
)

type User struct {
	ID            string `db:"id" json:"id"`
	Email         string `db:"email" json:"email"`
	Name          string `db:"name" json:"name"`
	Hash          string `db:"password_hash" json:"-"`
	Role          string `db:"role" json:"role"`
	StoreName     string `db:"store_name" json:"storeName,omitempty"`
	StoreLocation string `db:"store_location" json:"storeLocation,omitempty"`
	CreatedAt     string `db:"created_at" json:"createdAt"`
}
