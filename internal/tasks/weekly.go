// Package tasks holds the periodic background jobs. There is exactly one:
// the weekly sales report mailed to every seller.
package tasks

import (
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"lapak/internal/notify"
	"lapak/internal/repos"
	"lapak/internal/services"
)

type WeeklyReporter struct {
	Users     *repos.UserRepo
	Analytics *services.AnalyticsService
	Notifier  notify.Notifier
}

// RunOnce computes the 7-day summary per seller and mails it. Per-seller
// failures are logged and don't stop the rest of the batch.
func (w *WeeklyReporter) RunOnce() error {
	sellers, err := w.Users.ListSellers()
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(4)
	for _, seller := range sellers {
		seller := seller
		g.Go(func() error {
			sum, err := w.Analytics.LastWeek(seller.ID)
			if err != nil {
				log.Printf("[weekly] stats for %s failed: %v", seller.ID, err)
				return nil
			}
			notify.Dispatch(w.Notifier, []notify.Event{{
				Kind:      notify.KindWeeklyReport,
				Recipient: seller.Email,
				Payload: map[string]any{
					"sellerName": seller.Name,
					"revenue":    sum.Revenue,
					"orders":     sum.Orders,
				},
			}})
			return nil
		})
	}
	return g.Wait()
}

// Start fires RunOnce on the given interval until stop is closed.
func (w *WeeklyReporter) Start(interval time.Duration, stop <-chan struct{}) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				if err := w.RunOnce(); err != nil {
					log.Printf("[weekly] run failed: %v", err)
				}
			case <-stop:
				return
			}
		}
	}()
}
