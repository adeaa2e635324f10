package tasks_test

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"lapak/internal/notify"
	"lapak/internal/repos"
	"lapak/internal/services"
	"lapak/internal/tasks"
)

type capture struct{ ch chan notify.Event }

func (c *capture) Notify(ev notify.Event) error {
	c.ch <- ev
	return nil
}

func TestWeeklyReporter_MailsEverySeller(t *testing.T) {
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := repos.EnsureSchema(db); err != nil {
		t.Fatal(err)
	}
	_, err = db.Exec(`
		INSERT INTO users(id,email,name,password_hash,role,store_name) VALUES
		  ('cust-1','dewi@test.local','Dewi','x','CUSTOMER',''),
		  ('sell-a','sari@test.local','Sari','x','SELLER','Toko Sari'),
		  ('sell-b','tono@test.local','Tono','x','SELLER','Toko Tono');
		INSERT INTO products(id,seller_id,sku,name,description,category,price,stock,variants_json)
		VALUES('prod-x','sell-a','SKU-T-1','Mug','','kitchen',10000,9,'{}');
		INSERT INTO orders(id,order_number,user_id,seller_id,total_price,shipping_address,payment_method,status)
		VALUES('o1','ORD-o1','cust-1','sell-a',30000,'Jl. Test','cod','PENDING');
		INSERT INTO order_items(id,order_id,product_id,quantity,price,variant_json)
		VALUES('oi1','o1','prod-x',3,10000,'{}');`)
	if err != nil {
		t.Fatal(err)
	}

	c := &capture{ch: make(chan notify.Event, 8)}
	w := &tasks.WeeklyReporter{
		Users:     repos.NewUserRepo(db),
		Analytics: services.NewAnalyticsService(repos.NewStatsRepo(db)),
		Notifier:  c,
	}
	if err := w.RunOnce(); err != nil {
		t.Fatal(err)
	}

	byRecipient := map[string]notify.Event{}
	deadline := time.After(time.Second)
	for len(byRecipient) < 2 {
		select {
		case ev := <-c.ch:
			if ev.Kind != notify.KindWeeklyReport {
				t.Fatalf("kind = %s", ev.Kind)
			}
			byRecipient[ev.Recipient] = ev
		case <-deadline:
			t.Fatalf("got %d reports, want 2", len(byRecipient))
		}
	}

	// customers get nothing
	if _, ok := byRecipient["dewi@test.local"]; ok {
		t.Fatal("customer received a seller report")
	}
	if got := byRecipient["sari@test.local"].Payload["revenue"]; got != int64(30000) {
		t.Fatalf("sell-a revenue payload = %v, want 30000", got)
	}
	if got := byRecipient["tono@test.local"].Payload["orders"]; got != 0 {
		t.Fatalf("sell-b orders payload = %v, want 0", got)
	}
}
