package domain

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// transitions is the strict forward-only state machine. Cancellation is
// only reachable from PENDING; DELIVERED and CANCELLED are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Order is scoped to a single seller: a checkout spanning N sellers
// produces N orders. Lifecycle timestamps are set exactly once, when the
// corresponding transition fires.
type Order struct {
	ID              string      `db:"id" json:"id"`
	OrderNumber     string      `db:"order_number" json:"orderNumber"`
	UserID          string      `db:"user_id" json:"userId"`
	SellerID        string      `db:"seller_id" json:"sellerId"`
	TotalPrice      int64       `db:"total_price" json:"totalPrice"`
	ShippingAddress string      `db:"shipping_address" json:"shippingAddress"`
	PaymentMethod   string      `db:"payment_method" json:"paymentMethod"`
	Status          OrderStatus `db:"status" json:"status"`
	CreatedAt       string      `db:"created_at" json:"createdAt"`
	ProcessedAt     string      `db:"processed_at" json:"processedAt,omitempty"`
	ShippedAt       string      `db:"shipped_at" json:"shippedAt,omitempty"`
	DeliveredAt     string      `db:"delivered_at" json:"deliveredAt,omitempty"`
	CancelledAt     string      `db:"cancelled_at" json:"cancelledAt,omitempty"`
}

// OrderItem snapshots quantity, unit price and variant selection at
// order-creation time; later product edits don't touch it.
type OrderItem struct {
	ID          string `db:"id" json:"id"`
	OrderID     string `db:"order_id" json:"orderId"`
	ProductID   string `db:"product_id" json:"productId"`
	Quantity    int    `db:"quantity" json:"quantity"`
	Price       int64  `db:"price" json:"price"`
	VariantJSON string `db:"variant_json" json:"-"`
}

func (oi OrderItem) Variant() (Variant, error) { return ParseVariant(oi.VariantJSON) }
