// Package notify is the fire-and-forget side channel for transactional
// email. Services collect events while a transaction is open and hand them
// to Dispatch only after commit; a failing transport is logged and never
// reaches the caller.
package notify

import "log"

type Kind string

const (
	KindWelcome           Kind = "welcome"
	KindOrderConfirmation Kind = "order-confirmation"
	KindNewOrderAlert     Kind = "new-order-alert"
	KindLowStockAlert     Kind = "low-stock-alert"
	KindStatusUpdate      Kind = "status-update"
	KindWeeklyReport      Kind = "weekly-report"
)

type Event struct {
	Kind      Kind
	Recipient string
	Payload   map[string]any
}

type Notifier interface {
	Notify(ev Event) error
}

// Dispatch delivers events on a separate goroutine. Failures are swallowed
// after logging; nothing here may affect the transaction that produced the
// events.
func Dispatch(n Notifier, events []Event) {
	if n == nil || len(events) == 0 {
		return
	}
	go func() {
		for _, ev := range events {
			if err := n.Notify(ev); err != nil {
				log.Printf("[notify] %s to %s failed: %v", ev.Kind, ev.Recipient, err)
			}
		}
	}()
}

// LogNotifier is the transport used when SMTP is not configured: it just
// records what would have been sent.
type LogNotifier struct{}

func (LogNotifier) Notify(ev Event) error {
	log.Printf("[notify] %s -> %s %v", ev.Kind, ev.Recipient, ev.Payload)
	return nil
}
