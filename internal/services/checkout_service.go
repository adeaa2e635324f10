package services

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lapak/internal/apperr"
	"lapak/internal/domain"
	"lapak/internal/notify"
	"lapak/internal/repos"
)

// CheckoutService turns a set of cart lines into one PENDING order per
// seller, inside a single transaction: stock validation, order + item
// creation, stock decrement and cart-line deletion either all commit or
// none do. Notifications are collected while the tx is open and dispatched
// only after a successful commit.
type CheckoutService struct {
	DB       *sqlx.DB
	Users    *repos.UserRepo
	Carts    *repos.CartRepo
	Products *repos.ProductRepo
	Orders   *repos.OrderRepo
	Notifier notify.Notifier

	// LowStockThreshold is the stock level at or below which the seller
	// gets a restock alert after a decrement.
	LowStockThreshold int
}

func NewCheckoutService(db *sqlx.DB, users *repos.UserRepo, carts *repos.CartRepo,
	products *repos.ProductRepo, orders *repos.OrderRepo, n notify.Notifier, lowStock int) *CheckoutService {
	return &CheckoutService{
		DB: db, Users: users, Carts: carts, Products: products, Orders: orders,
		Notifier: n, LowStockThreshold: lowStock,
	}
}

// Place runs the split-order checkout. cartItemIDs must resolve to lines
// in the customer's own cart; the result holds one order per distinct
// seller, in deterministic (sorted seller id) order.
func (s *CheckoutService) Place(customerID, shippingAddress, paymentMethod string,
	cartItemIDs []string, shippingCost int64) ([]domain.Order, error) {

	customer, err := s.Users.ByID(customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("customer not found")
		}
		return nil, err
	}
	if shippingAddress == "" {
		return nil, apperr.InvalidRequest("shipping address is required")
	}
	if shippingCost < 0 {
		return nil, apperr.InvalidRequest("shipping cost must not be negative")
	}

	var (
		created []domain.Order
		events  []notify.Event
	)

	err = repos.InTx(s.DB, func(tx *sqlx.Tx) error {
		lines, err := s.Carts.ResolveForCheckout(tx, customerID, cartItemIDs)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperr.InvalidRequest("no cart items selected")
		}
		// Every requested id must have resolved to a line in the
		// customer's own cart.
		resolved := make([]string, 0, len(lines))
		for _, ln := range lines {
			resolved = append(resolved, ln.ItemID)
		}
		if len(resolved) != len(uniqueIDs(cartItemIDs)) {
			return apperr.InvalidRequest("one or more cart items could not be found")
		}

		bySeller := map[string][]repos.CheckoutLine{}
		for _, ln := range lines {
			bySeller[ln.SellerID] = append(bySeller[ln.SellerID], ln)
		}
		sellerIDs := make([]string, 0, len(bySeller))
		for id := range bySeller {
			sellerIDs = append(sellerIDs, id)
		}
		sort.Strings(sellerIDs)

		shares := splitShipping(shippingCost, len(sellerIDs))

		// one low-stock alert per product, even when several lines
		// (distinct variants) of it cross the threshold
		alerted := map[string]bool{}

		for i, sellerID := range sellerIDs {
			part := bySeller[sellerID]

			// Quantities for the same product accumulate across lines
			// (distinct variants), so validate the partition's aggregate
			// against transaction-scoped stock before writing anything.
			need := map[string]int{}
			for _, ln := range part {
				need[ln.ProductID] += ln.Quantity
			}
			for _, ln := range part {
				if ln.Stock < need[ln.ProductID] {
					return apperr.InsufficientStock(ln.ProductName)
				}
			}

			var sellerTotal int64
			for _, ln := range part {
				sellerTotal += ln.Price * int64(ln.Quantity)
			}
			sellerTotal += shares[i]

			order := domain.Order{
				ID:              uuid.NewString(),
				OrderNumber:     newOrderNumber(sellerID),
				UserID:          customerID,
				SellerID:        sellerID,
				TotalPrice:      sellerTotal,
				ShippingAddress: shippingAddress,
				PaymentMethod:   paymentMethod,
				Status:          domain.StatusPending,
			}
			if err := s.Orders.Insert(tx, order); err != nil {
				return err
			}

			for _, ln := range part {
				if err := s.Orders.InsertItem(tx, domain.OrderItem{
					ID:          uuid.NewString(),
					OrderID:     order.ID,
					ProductID:   ln.ProductID,
					Quantity:    ln.Quantity,
					Price:       ln.Price,
					VariantJSON: ln.VariantJSON,
				}); err != nil {
					return err
				}

				// The conditional decrement re-validates stock at write
				// time; a concurrent checkout that raced us past the read
				// above fails here and rolls the whole thing back.
				remaining, err := s.Products.DecrementStock(tx, ln.ProductID, ln.Quantity)
				if err != nil {
					if errors.Is(err, repos.ErrStockConflict) {
						return apperr.InsufficientStock(ln.ProductName)
					}
					return err
				}
				if remaining <= s.LowStockThreshold && !alerted[ln.ProductID] {
					alerted[ln.ProductID] = true
					events = append(events, notify.Event{
						Kind:      notify.KindLowStockAlert,
						Recipient: ln.SellerEmail,
						Payload: map[string]any{
							"sellerName":  ln.SellerName,
							"productName": ln.ProductName,
							"stock":       remaining,
						},
					})
				}
			}

			events = append(events, notify.Event{
				Kind:      notify.KindNewOrderAlert,
				Recipient: part[0].SellerEmail,
				Payload: map[string]any{
					"sellerName":  part[0].SellerName,
					"orderNumber": order.OrderNumber,
					"itemCount":   len(part),
				},
			})
			created = append(created, order)
		}

		// Consumed lines go in the same tx so a failure anywhere keeps
		// the cart intact.
		return s.Carts.DeleteItems(tx, resolved)
	})
	if err != nil {
		return nil, err
	}

	// Re-read for DB-side timestamps, then fire the post-commit side
	// channel.
	for i, o := range created {
		if full, err := s.Orders.Get(o.ID); err == nil {
			created[i] = full
		}
		events = append(events, notify.Event{
			Kind:      notify.KindOrderConfirmation,
			Recipient: customer.Email,
			Payload: map[string]any{
				"customerName": customer.Name,
				"orderNumber":  o.OrderNumber,
				"total":        created[i].TotalPrice,
			},
		})
	}
	notify.Dispatch(s.Notifier, events)

	return created, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// splitShipping divides a shipping cost evenly across n seller orders;
// the integer remainder lands on the first order in deterministic order.
func splitShipping(total int64, n int) []int64 {
	shares := make([]int64, n)
	if n == 0 || total <= 0 {
		return shares
	}
	each := total / int64(n)
	for i := range shares {
		shares[i] = each
	}
	shares[0] += total % int64(n)
	return shares
}

// newOrderNumber builds a collision-resistant human-readable identifier;
// the orders.order_number unique constraint is the hard guarantee.
func newOrderNumber(sellerID string) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	short := sellerID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("ORD-%d-%s-%s", time.Now().UnixMilli(), short, suffix)
}
