package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lapak/internal/apperr"
	"lapak/internal/domain"
	"lapak/internal/notify"
	"lapak/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	Users    *repos.UserRepo
	Notifier notify.Notifier
}

func NewAuthService(users *repos.UserRepo, n notify.Notifier) *AuthService {
	return &AuthService{Users: users, Notifier: n}
}

func (s *AuthService) Register(name, email, password string) (*domain.User, error) {
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, apperr.InvalidRequest("email is already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := domain.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
		Hash:  string(h),
		Role:  domain.RoleCustomer,
	}
	if err := s.Users.Insert(u); err != nil {
		return nil, err
	}

	notify.Dispatch(s.Notifier, []notify.Event{{
		Kind:      notify.KindWelcome,
		Recipient: u.Email,
		Payload:   map[string]any{"name": u.Name},
	}})

	return s.Users.ByID(u.ID)
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

// ProfileInput patches only the fields that are set.
type ProfileInput struct {
	Name          *string `json:"name"`
	StoreName     *string `json:"storeName"`
	StoreLocation *string `json:"storeLocation"`
	Password      *string `json:"password"`
}

// UpdateProfile edits the logged-in account: display name and password
// for everyone, store details for sellers only.
func (s *AuthService) UpdateProfile(userID string, in ProfileInput) (*domain.User, error) {
	u, err := s.Users.ByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}

	if (in.StoreName != nil || in.StoreLocation != nil) && u.Role != domain.RoleSeller {
		return nil, apperr.InvalidRequest("store details require a seller account")
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.InvalidRequest("name must not be empty")
		}
		u.Name = *in.Name
	}
	if in.StoreName != nil {
		if *in.StoreName == "" {
			return nil, apperr.InvalidRequest("store name must not be empty")
		}
		u.StoreName = *in.StoreName
	}
	if in.StoreLocation != nil {
		u.StoreLocation = *in.StoreLocation
	}

	if err := s.Users.UpdateProfile(u.ID, u.Name, u.StoreName, u.StoreLocation); err != nil {
		return nil, err
	}
	if in.Password != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*in.Password), 12)
		if err != nil {
			return nil, err
		}
		if err := s.Users.UpdatePassword(u.ID, string(h)); err != nil {
			return nil, err
		}
	}
	return s.Users.ByID(userID)
}

// UpgradeToSeller turns a customer account into a seller with store
// details.
func (s *AuthService) UpgradeToSeller(userID, storeName, storeLocation string) (*domain.User, error) {
	u, err := s.Users.ByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	if u.Role == domain.RoleSeller {
		return nil, apperr.InvalidState("account is already a seller")
	}
	if storeName == "" {
		return nil, apperr.InvalidRequest("store name is required")
	}
	if err := s.Users.UpgradeToSeller(userID, storeName, storeLocation); err != nil {
		return nil, err
	}
	return s.Users.ByID(userID)
}
