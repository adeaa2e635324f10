package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"lapak/internal/apperr"
	"lapak/internal/domain"
	"lapak/internal/repos"
	"lapak/internal/services"
)

// placeOne checks out a single prod-case unit for cust-1 and returns the
// created order plus the lifecycle service bound to the same store.
func placeOne(t *testing.T, db *sqlx.DB) (domain.Order, *services.OrderService) {
	t.Helper()
	capture := newCapture()
	cartSvc, checkoutSvc := checkoutFixture(t, db, capture, 0)

	item, err := cartSvc.Add("cust-1", "prod-case", 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	orders, err := checkoutSvc.Place("cust-1", "Jl. Merdeka 1", "cod", []string{item.ID}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 {
		t.Fatalf("want one order, got %d", len(orders))
	}

	svc := services.NewOrderService(db, repos.NewOrderRepo(db), repos.NewProductRepo(db),
		repos.NewUserRepo(db), newCapture())
	return orders[0], svc
}

func TestLifecycle_HappyPath(t *testing.T) {
	db := memdb(t)
	o, svc := placeOne(t, db)

	v, err := svc.UpdateStatus(o.ID, domain.StatusProcessing, "sell-a")
	if err != nil {
		t.Fatal(err)
	}
	if v.Status != domain.StatusProcessing || v.ProcessedAt == "" {
		t.Fatalf("bad PROCESSING transition: %+v", v.Order)
	}

	v, err = svc.UpdateStatus(o.ID, domain.StatusShipped, "sell-a")
	if err != nil {
		t.Fatal(err)
	}
	if v.Status != domain.StatusShipped || v.ShippedAt == "" {
		t.Fatalf("bad SHIPPED transition: %+v", v.Order)
	}

	// customer confirms delivery
	v, err = svc.Receive(o.ID, "cust-1")
	if err != nil {
		t.Fatal(err)
	}
	if v.Status != domain.StatusDelivered || v.DeliveredAt == "" {
		t.Fatalf("bad DELIVERED transition: %+v", v.Order)
	}
	// no stock change on delivery
	if got := stock(t, db, "prod-case"); got != 3 {
		t.Fatalf("stock = %d, want 3", got)
	}
}

func TestLifecycle_ForwardOnly(t *testing.T) {
	db := memdb(t)
	o, svc := placeOne(t, db)

	if _, err := svc.UpdateStatus(o.ID, domain.StatusShipped, "sell-a"); apperr.CodeOf(err) != apperr.CodeInvalidState {
		t.Fatalf("PENDING->SHIPPED skip: want InvalidState, got %v", err)
	}
	if _, err := svc.UpdateStatus(o.ID, domain.StatusProcessing, "sell-a"); err != nil {
		t.Fatal(err)
	}
	// no going back
	if _, err := svc.UpdateStatus(o.ID, domain.StatusPending, "sell-a"); apperr.CodeOf(err) != apperr.CodeInvalidState {
		t.Fatalf("backward transition: want InvalidState, got %v", err)
	}
	// cancellation window closed after PENDING
	if _, err := svc.UpdateStatus(o.ID, domain.StatusCancelled, "sell-a"); apperr.CodeOf(err) != apperr.CodeInvalidState {
		t.Fatalf("PROCESSING->CANCELLED: want InvalidState, got %v", err)
	}

	if _, err := svc.UpdateStatus(o.ID, "TELEPORTED", "sell-a"); apperr.CodeOf(err) != apperr.CodeInvalidRequest {
		t.Fatalf("unknown status: want InvalidRequest, got %v", err)
	}
	if _, err := svc.UpdateStatus("ghost", domain.StatusProcessing, "sell-a"); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("missing order: want NotFound, got %v", err)
	}
	if _, err := svc.UpdateStatus(o.ID, domain.StatusShipped, "sell-b"); apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Fatalf("foreign seller: want Forbidden, got %v", err)
	}
}

func TestLifecycle_CancelRestoresStock(t *testing.T) {
	db := memdb(t)
	o, svc := placeOne(t, db) // stock now 3

	v, err := svc.Cancel(o.ID, "cust-1")
	if err != nil {
		t.Fatal(err)
	}
	if v.Status != domain.StatusCancelled || v.CancelledAt == "" {
		t.Fatalf("bad CANCELLED transition: %+v", v.Order)
	}
	if got := stock(t, db, "prod-case"); got != 5 {
		t.Fatalf("stock after cancel = %d, want 5", got)
	}
}

func TestLifecycle_CancelAndReceiveGuards(t *testing.T) {
	db := memdb(t)
	o, svc := placeOne(t, db)

	if _, err := svc.Cancel(o.ID, "cust-2"); apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Fatalf("foreign cancel: want Forbidden, got %v", err)
	}
	if _, err := svc.Receive(o.ID, "cust-1"); apperr.CodeOf(err) != apperr.CodeInvalidState {
		t.Fatalf("receive before shipping: want InvalidState, got %v", err)
	}

	if _, err := svc.UpdateStatus(o.ID, domain.StatusProcessing, "sell-a"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateStatus(o.ID, domain.StatusShipped, "sell-a"); err != nil {
		t.Fatal(err)
	}

	// shipped orders can no longer be cancelled, and only the owner may
	// confirm receipt
	if _, err := svc.Cancel(o.ID, "cust-1"); apperr.CodeOf(err) != apperr.CodeInvalidState {
		t.Fatalf("cancel after shipping: want InvalidState, got %v", err)
	}
	if _, err := svc.Receive(o.ID, "cust-2"); apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Fatalf("foreign receive: want Forbidden, got %v", err)
	}
	if got := stock(t, db, "prod-case"); got != 3 {
		t.Fatalf("stock changed by rejected operations: %d", got)
	}
}

func TestOrders_Listings(t *testing.T) {
	db := memdb(t)
	capture := newCapture()
	cartSvc, checkoutSvc := checkoutFixture(t, db, capture, 0)

	a, _ := cartSvc.Add("cust-1", "prod-case", 1, nil)
	b, _ := cartSvc.Add("cust-1", "prod-bag", 1, nil)
	if _, err := checkoutSvc.Place("cust-1", "Jl. Merdeka 1", "cod", []string{a.ID, b.ID}, 0); err != nil {
		t.Fatal(err)
	}

	svc := services.NewOrderService(db, repos.NewOrderRepo(db), repos.NewProductRepo(db),
		repos.NewUserRepo(db), capture)

	page, err := svc.MyOrders("cust-1", "", 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 || len(page.Orders) != 2 {
		t.Fatalf("customer history: total=%d len=%d, want 2/2", page.Total, len(page.Orders))
	}
	for _, v := range page.Orders {
		if len(v.Items) != 1 {
			t.Fatalf("order %s has %d items, want 1", v.OrderNumber, len(v.Items))
		}
	}

	filtered, err := svc.MyOrders("cust-1", string(domain.StatusDelivered), 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if filtered.Total != 0 {
		t.Fatalf("DELIVERED filter should be empty, got %d", filtered.Total)
	}

	mine, err := svc.SellerOrders("sell-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].SellerID != "sell-a" {
		t.Fatalf("seller listing wrong: %+v", mine)
	}
}
