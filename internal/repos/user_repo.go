package repos

import (
	"lapak/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `id,email,name,password_hash,role,store_name,store_location,created_at`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Insert(u domain.User) error {
	_, err := r.db.Exec(`
		INSERT INTO users(id,email,name,password_hash,role,store_name,store_location)
		VALUES(?,?,?,?,?,?,?)`,
		u.ID, u.Email, u.Name, u.Hash, u.Role, u.StoreName, u.StoreLocation)
	return err
}

// UpdateProfile patches the display name and store details.
func (r *UserRepo) UpdateProfile(id, name, storeName, storeLocation string) error {
	_, err := r.db.Exec(`
		UPDATE users SET name=?, store_name=?, store_location=? WHERE id=?`,
		name, storeName, storeLocation, id)
	return err
}

func (r *UserRepo) UpdatePassword(id, hash string) error {
	_, err := r.db.Exec(`UPDATE users SET password_hash=? WHERE id=?`, hash, id)
	return err
}

// UpgradeToSeller flips the role and records store details.
func (r *UserRepo) UpgradeToSeller(id, storeName, storeLocation string) error {
	_, err := r.db.Exec(`
		UPDATE users SET role=?, store_name=?, store_location=? WHERE id=?`,
		domain.RoleSeller, storeName, storeLocation, id)
	return err
}

func (r *UserRepo) ListSellers() ([]domain.User, error) {
	var out []domain.User
	err := r.db.Select(&out, `SELECT `+userCols+` FROM users WHERE role=? ORDER BY name`, domain.RoleSeller)
	return out, err
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.db.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `
      SELECT u.id,u.email,u.name,u.password_hash,u.role,u.store_name,u.store_location,u.created_at
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.db.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}
