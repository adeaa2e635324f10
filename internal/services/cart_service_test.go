package services_test

import (
	"testing"

	"lapak/internal/apperr"
	"lapak/internal/domain"
	"lapak/internal/repos"
	"lapak/internal/services"
)

func cartFixture(t *testing.T) (*services.CartService, func() int) {
	t.Helper()
	db := memdb(t)
	svc := services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))
	return svc, func() int { return count(t, db, "cart_items") }
}

func TestCart_MergeIsVariantKeyed(t *testing.T) {
	svc, items := cartFixture(t)

	first, err := svc.Add("cust-1", "prod-case", 2, domain.Variant{"color": "red"})
	if err != nil {
		t.Fatal(err)
	}
	// same selection again: quantities merge into the existing line
	second, err := svc.Add("cust-1", "prod-case", 1, domain.Variant{"color": "red"})
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Fatalf("equal variant created a new line: %s vs %s", second.ID, first.ID)
	}
	if second.Quantity != 3 {
		t.Fatalf("merged quantity = %d, want 3", second.Quantity)
	}
	if items() != 1 {
		t.Fatalf("cart has %d lines, want 1", items())
	}

	// a different variant value is its own line
	blue, err := svc.Add("cust-1", "prod-case", 1, domain.Variant{"color": "blue"})
	if err != nil {
		t.Fatal(err)
	}
	if blue.ID == first.ID {
		t.Fatal("different variant merged into existing line")
	}
	if items() != 2 {
		t.Fatalf("cart has %d lines, want 2", items())
	}
}

func TestCart_AddStockChecks(t *testing.T) {
	svc, _ := cartFixture(t)

	if _, err := svc.Add("cust-1", "nope", 1, nil); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("missing product: want NotFound, got %v", err)
	}
	if _, err := svc.Add("cust-1", "prod-bag", 4, nil); apperr.CodeOf(err) != apperr.CodeInsufficientStock {
		t.Fatalf("over stock: want InsufficientStock, got %v", err)
	}
	if _, err := svc.Add("cust-1", "prod-bag", 0, nil); apperr.CodeOf(err) != apperr.CodeInvalidRequest {
		t.Fatalf("zero quantity: want InvalidRequest, got %v", err)
	}

	// merging past stock also fails: 2 + 2 > 3
	if _, err := svc.Add("cust-1", "prod-bag", 2, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add("cust-1", "prod-bag", 2, nil); apperr.CodeOf(err) != apperr.CodeInsufficientStock {
		t.Fatalf("merge over stock: want InsufficientStock, got %v", err)
	}
}

func TestCart_UpdateQuantity(t *testing.T) {
	svc, items := cartFixture(t)

	it, err := svc.Add("cust-1", "prod-chg", 2, nil)
	if err != nil {
		t.Fatal(err)
	}

	// not the owner: absence and foreign ownership look identical
	if _, err := svc.UpdateQuantity(it.ID, 1, "cust-2"); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("foreign update: want NotFound, got %v", err)
	}

	if _, err := svc.UpdateQuantity(it.ID, 99, "cust-1"); apperr.CodeOf(err) != apperr.CodeInsufficientStock {
		t.Fatalf("over stock: want InsufficientStock, got %v", err)
	}

	upd, err := svc.UpdateQuantity(it.ID, 5, "cust-1")
	if err != nil {
		t.Fatal(err)
	}
	if upd.Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", upd.Quantity)
	}

	// zero deletes the line
	if _, err := svc.UpdateQuantity(it.ID, 0, "cust-1"); err != nil {
		t.Fatal(err)
	}
	if items() != 0 {
		t.Fatalf("line not deleted on zero quantity, %d left", items())
	}
}

func TestCart_RemoveAndList(t *testing.T) {
	svc, _ := cartFixture(t)

	// listing with no cart yet returns an empty view, not an error
	view, err := svc.List("cust-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Items) != 0 || view.Total != 0 {
		t.Fatalf("fresh cart not empty: %+v", view)
	}

	a, _ := svc.Add("cust-1", "prod-case", 2, domain.Variant{"color": "red"})
	if _, err := svc.Add("cust-1", "prod-bag", 1, nil); err != nil {
		t.Fatal(err)
	}

	view, err = svc.List("cust-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Items) != 2 {
		t.Fatalf("want 2 lines, got %d", len(view.Items))
	}
	if view.Total != 2*10000+50000 {
		t.Fatalf("total = %d, want %d", view.Total, 2*10000+50000)
	}
	for _, ln := range view.Items {
		if ln.ProductName == "" || ln.StoreName == "" {
			t.Fatalf("line not enriched with product/seller data: %+v", ln)
		}
	}

	if err := svc.Remove(a.ID, "cust-2"); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("foreign remove: want NotFound, got %v", err)
	}
	if err := svc.Remove(a.ID, "cust-1"); err != nil {
		t.Fatal(err)
	}
	view, _ = svc.List("cust-1")
	if len(view.Items) != 1 {
		t.Fatalf("want 1 line after remove, got %d", len(view.Items))
	}
}
