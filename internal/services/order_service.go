package services

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"lapak/internal/apperr"
	"lapak/internal/domain"
	"lapak/internal/notify"
	"lapak/internal/repos"
)

// OrderService advances existing orders through the lifecycle state
// machine. Orders are created only by CheckoutService and never deleted.
type OrderService struct {
	DB       *sqlx.DB
	Orders   *repos.OrderRepo
	Products *repos.ProductRepo
	Users    *repos.UserRepo
	Notifier notify.Notifier
}

func NewOrderService(db *sqlx.DB, orders *repos.OrderRepo, products *repos.ProductRepo,
	users *repos.UserRepo, n notify.Notifier) *OrderService {
	return &OrderService{DB: db, Orders: orders, Products: products, Users: users, Notifier: n}
}

// OrderView is an order with its display items.
type OrderView struct {
	domain.Order
	Items []repos.ItemView `json:"items"`
}

func (s *OrderService) view(o domain.Order) (OrderView, error) {
	items, err := s.Orders.Items(o.ID)
	if err != nil {
		return OrderView{}, err
	}
	return OrderView{Order: o, Items: items}, nil
}

func (s *OrderService) get(orderID string) (domain.Order, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, apperr.NotFound("order not found")
		}
		return domain.Order{}, err
	}
	return o, nil
}

// UpdateStatus is the seller-side transition. Moves follow the strict
// forward-only table; entering CANCELLED restores stock in the same tx as
// the status write.
func (s *OrderService) UpdateStatus(orderID string, next domain.OrderStatus, sellerID string) (OrderView, error) {
	o, err := s.get(orderID)
	if err != nil {
		return OrderView{}, err
	}
	if o.SellerID != sellerID {
		return OrderView{}, apperr.Forbidden("order belongs to another seller")
	}
	if !next.Valid() {
		return OrderView{}, apperr.InvalidRequest("unknown status %q", string(next))
	}
	if !o.Status.CanTransition(next) {
		return OrderView{}, apperr.InvalidState("cannot move order from %s to %s", o.Status, next)
	}

	if err := s.transition(o, next); err != nil {
		return OrderView{}, err
	}
	return s.reload(orderID)
}

// Cancel is the customer-side cancellation, legal only while PENDING.
func (s *OrderService) Cancel(orderID, customerID string) (OrderView, error) {
	o, err := s.get(orderID)
	if err != nil {
		return OrderView{}, err
	}
	if o.UserID != customerID {
		return OrderView{}, apperr.Forbidden("this is not your order")
	}
	if o.Status != domain.StatusPending {
		return OrderView{}, apperr.InvalidState("order can no longer be cancelled")
	}

	if err := s.transition(o, domain.StatusCancelled); err != nil {
		return OrderView{}, err
	}
	return s.reload(orderID)
}

// Receive is the customer's delivery confirmation, legal only from
// SHIPPED. No stock change.
func (s *OrderService) Receive(orderID, customerID string) (OrderView, error) {
	o, err := s.get(orderID)
	if err != nil {
		return OrderView{}, err
	}
	if o.UserID != customerID {
		return OrderView{}, apperr.Forbidden("this is not your order")
	}
	if o.Status != domain.StatusShipped {
		return OrderView{}, apperr.InvalidState("order has not been shipped yet")
	}

	if err := s.transition(o, domain.StatusDelivered); err != nil {
		return OrderView{}, err
	}
	return s.reload(orderID)
}

// transition applies the status write (plus restock when cancelling) in
// one tx, then notifies the customer for the statuses they care about.
func (s *OrderService) transition(o domain.Order, next domain.OrderStatus) error {
	err := repos.InTx(s.DB, func(tx *sqlx.Tx) error {
		if next == domain.StatusCancelled && o.Status != domain.StatusCancelled {
			items, err := s.Orders.ItemsTx(tx, o.ID)
			if err != nil {
				return err
			}
			for _, it := range items {
				if err := s.Products.IncrementStock(tx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		}
		return s.Orders.UpdateStatus(tx, o.ID, next)
	})
	if err != nil {
		return err
	}

	switch next {
	case domain.StatusShipped, domain.StatusDelivered, domain.StatusCancelled:
		if customer, err := s.Users.ByID(o.UserID); err == nil {
			notify.Dispatch(s.Notifier, []notify.Event{{
				Kind:      notify.KindStatusUpdate,
				Recipient: customer.Email,
				Payload: map[string]any{
					"customerName": customer.Name,
					"orderNumber":  o.OrderNumber,
					"status":       string(next),
				},
			}})
		}
	}
	return nil
}

func (s *OrderService) reload(orderID string) (OrderView, error) {
	o, err := s.get(orderID)
	if err != nil {
		return OrderView{}, err
	}
	return s.view(o)
}

// OrderPage is a paged slice of a customer's order history.
type OrderPage struct {
	Orders []OrderView `json:"data"`
	Total  int         `json:"total"`
	Page   int         `json:"page"`
	Pages  int         `json:"lastPage"`
}

func (s *OrderService) MyOrders(customerID, status string, page, limit int) (OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	f := repos.OrderFilter{Status: status, Limit: limit, Offset: (page - 1) * limit}

	orders, err := s.Orders.ListByUser(customerID, f)
	if err != nil {
		return OrderPage{}, err
	}
	total, err := s.Orders.CountByUser(customerID, f)
	if err != nil {
		return OrderPage{}, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		v, err := s.view(o)
		if err != nil {
			return OrderPage{}, err
		}
		views = append(views, v)
	}
	pages := (total + limit - 1) / limit
	return OrderPage{Orders: views, Total: total, Page: page, Pages: pages}, nil
}

func (s *OrderService) SellerOrders(sellerID string) ([]OrderView, error) {
	orders, err := s.Orders.ListBySeller(sellerID)
	if err != nil {
		return nil, err
	}
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		v, err := s.view(o)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
