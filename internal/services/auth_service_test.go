package services_test

import (
	"errors"
	"testing"

	"lapak/internal/apperr"
	"lapak/internal/domain"
	"lapak/internal/notify"
	"lapak/internal/repos"
	"lapak/internal/services"
)

func authFixture(t *testing.T) (*services.AuthService, *captureNotifier) {
	t.Helper()
	db := memdb(t)
	capture := newCapture()
	return services.NewAuthService(repos.NewUserRepo(db), capture), capture
}

func TestAuth_RegisterLoginLogout(t *testing.T) {
	svc, capture := authFixture(t)

	u, err := svc.Register("Ayu", "ayu@test.local", "Str0ngPass")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != domain.RoleCustomer {
		t.Fatalf("role = %s, want customer", u.Role)
	}
	if u.Hash == "Str0ngPass" || u.Hash == "" {
		t.Fatal("password stored unhashed")
	}
	evs := capture.waitEvents(t, 1)
	if evs[0].Kind != notify.KindWelcome || evs[0].Recipient != "ayu@test.local" {
		t.Fatalf("welcome event = %+v", evs[0])
	}

	if _, err := svc.Register("Ayu 2", "ayu@test.local", "Str0ngPass"); apperr.CodeOf(err) != apperr.CodeInvalidRequest {
		t.Fatalf("duplicate email: want InvalidRequest, got %v", err)
	}

	if _, err := svc.Login("sid-1", "ayu@test.local", "wrong"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("wrong password: want ErrBadCreds, got %v", err)
	}
	if _, err := svc.Login("sid-1", "ghost@test.local", "Str0ngPass"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("unknown email: want ErrBadCreds, got %v", err)
	}

	if _, err := svc.Login("sid-1", "ayu@test.local", "Str0ngPass"); err != nil {
		t.Fatal(err)
	}
	cur, err := svc.CurrentUser("sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if cur.Email != "ayu@test.local" {
		t.Fatalf("session resolves to %s", cur.Email)
	}

	if err := svc.Logout("sid-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CurrentUser("sid-1"); err == nil {
		t.Fatal("session survived logout")
	}
}

func TestAuth_UpgradeToSeller(t *testing.T) {
	svc, _ := authFixture(t)

	if _, err := svc.UpgradeToSeller("cust-1", "", ""); apperr.CodeOf(err) != apperr.CodeInvalidRequest {
		t.Fatalf("empty store name: want InvalidRequest, got %v", err)
	}

	u, err := svc.UpgradeToSeller("cust-1", "Toko Dewi", "Bandung")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != domain.RoleSeller || u.StoreName != "Toko Dewi" {
		t.Fatalf("upgrade result = %+v", u)
	}

	if _, err := svc.UpgradeToSeller("sell-a", "Again", ""); apperr.CodeOf(err) != apperr.CodeInvalidState {
		t.Fatalf("double upgrade: want InvalidState, got %v", err)
	}
	if _, err := svc.UpgradeToSeller("ghost", "X", ""); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("missing user: want NotFound, got %v", err)
	}
}

func strp(s string) *string { return &s }

func TestAuth_UpdateProfile(t *testing.T) {
	svc, _ := authFixture(t)

	u, err := svc.Register("Ayu", "ayu@test.local", "Str0ngPass")
	if err != nil {
		t.Fatal(err)
	}

	u, err = svc.UpdateProfile(u.ID, services.ProfileInput{Name: strp("Ayu Lestari")})
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "Ayu Lestari" {
		t.Fatalf("name = %s", u.Name)
	}

	// password rotation invalidates the old credential
	if _, err := svc.UpdateProfile(u.ID, services.ProfileInput{Password: strp("N3wSecret")}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login("sid-p", "ayu@test.local", "Str0ngPass"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := svc.Login("sid-p", "ayu@test.local", "N3wSecret"); err != nil {
		t.Fatal(err)
	}

	// store details are seller-only
	_, err = svc.UpdateProfile(u.ID, services.ProfileInput{StoreName: strp("Toko Ayu")})
	if apperr.CodeOf(err) != apperr.CodeInvalidRequest {
		t.Fatalf("customer store edit: want InvalidRequest, got %v", err)
	}
	if _, err := svc.UpgradeToSeller(u.ID, "Toko Ayu", "Bogor"); err != nil {
		t.Fatal(err)
	}
	u, err = svc.UpdateProfile(u.ID, services.ProfileInput{
		StoreName: strp("Toko Ayu Baru"), StoreLocation: strp("Depok"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if u.StoreName != "Toko Ayu Baru" || u.StoreLocation != "Depok" {
		t.Fatalf("store = %s / %s", u.StoreName, u.StoreLocation)
	}

	_, err = svc.UpdateProfile(u.ID, services.ProfileInput{Name: strp("")})
	if apperr.CodeOf(err) != apperr.CodeInvalidRequest {
		t.Fatalf("empty name: want InvalidRequest, got %v", err)
	}
	_, err = svc.UpdateProfile(u.ID, services.ProfileInput{StoreName: strp("")})
	if apperr.CodeOf(err) != apperr.CodeInvalidRequest {
		t.Fatalf("empty store name: want InvalidRequest, got %v", err)
	}
	_, err = svc.UpdateProfile("ghost", services.ProfileInput{Name: strp("X")})
	if apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("missing user: want NotFound, got %v", err)
	}
}
