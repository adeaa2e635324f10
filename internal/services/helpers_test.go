package services_test

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"lapak/internal/notify"
	"lapak/internal/repos"
)

// memdb opens an in-memory store with the real schema and a small
// two-seller fixture: Sari sells a phone case (price 10000, stock 5) and
// a charger (price 20000, stock 12), Tono sells a backpack (price 50000,
// stock 3).
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := repos.EnsureSchema(db); err != nil {
		t.Fatal(err)
	}

	fixture := `
	INSERT INTO users(id,email,name,password_hash,role,store_name) VALUES
	  ('cust-1','dewi@test.local','Dewi','x','CUSTOMER',''),
	  ('cust-2','rudi@test.local','Rudi','x','CUSTOMER',''),
	  ('sell-a','sari@test.local','Sari','x','SELLER','Toko Sari'),
	  ('sell-b','tono@test.local','Tono','x','SELLER','Toko Tono');

	INSERT INTO products(id,seller_id,sku,name,description,category,price,stock,variants_json) VALUES
	  ('prod-case','sell-a','SKU-T-1','Phone Case','','accessories',10000,5,'{"color":["red","blue"]}'),
	  ('prod-chg','sell-a','SKU-T-2','Charger','','accessories',20000,12,'{}'),
	  ('prod-bag','sell-b','SKU-T-3','Backpack','','bags',50000,3,'{}');
	`
	if _, err := db.Exec(fixture); err != nil {
		t.Fatal(err)
	}
	return db
}

// captureNotifier records events on a channel so tests can wait for the
// post-commit dispatch goroutine deterministically.
type captureNotifier struct {
	ch chan notify.Event
}

func newCapture() *captureNotifier {
	return &captureNotifier{ch: make(chan notify.Event, 64)}
}

func (c *captureNotifier) Notify(ev notify.Event) error {
	c.ch <- ev
	return nil
}

// waitEvents collects n events or fails after a second.
func (c *captureNotifier) waitEvents(t *testing.T, n int) []notify.Event {
	t.Helper()
	out := make([]notify.Event, 0, n)
	deadline := time.After(time.Second)
	for len(out) < n {
		select {
		case ev := <-c.ch:
			out = append(out, ev)
		case <-deadline:
			t.Fatalf("got %d notification events, want %d", len(out), n)
		}
	}
	return out
}

// drained asserts no further events arrive within a short window.
func (c *captureNotifier) drained(t *testing.T) {
	t.Helper()
	select {
	case ev := <-c.ch:
		t.Fatalf("unexpected extra event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func stock(t *testing.T, db *sqlx.DB, productID string) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT stock FROM products WHERE id=?`, productID); err != nil {
		t.Fatal(err)
	}
	return n
}

func count(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM `+table); err != nil {
		t.Fatal(err)
	}
	return n
}
