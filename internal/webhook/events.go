package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Event type constants
const (
	// EventTypeOrderCreated is fired when an order is placed
	EventTypeOrderCreated = "order.created"
	// EventTypeOrderPaid is fired when payment for an order is captured
	EventTypeOrderPaid = "order.paid"
	// EventTypeOrderRefunded is fired when an order is fully or partially refunded
	EventTypeOrderRefunded = "order.refunded"
	// EventTypeProductStockLow is fired when a product's stock falls to its threshold
	EventTypeProductStockLow = "product.stock_low"
	// EventTypeCustomerCreated is fired when a customer account is created
	EventTypeCustomerCreated = "customer.created"
	// EventTypeTest is only sent by the management API and cannot be subscribed to
	EventTypeTest = "test"

	// EventTypeWildcard is a subscription filter that matches all event types
	EventTypeWildcard = "*"
)

// ErrUnknownEventType is returned for event types outside the configured registry
var ErrUnknownEventType = errors.New("unknown event type")

// Event is a domain event that can be delivered to subscribers.
// The set of implementations is closed; see the payload types below.
type Event interface {
	EventType() string
	isEvent()
}

// OrderItem is a single line of an order
type OrderItem struct {
	ProductID      string `json:"product_id"`
	SKU            string `json:"sku,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// Order is the payload shared by order lifecycle events
type Order struct {
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number,omitempty"`
	CustomerID  string      `json:"customer_id,omitempty"`
	Status      string      `json:"status,omitempty"`
	Currency    string      `json:"currency"`
	TotalCents  int64       `json:"total_cents"`
	Items       []OrderItem `json:"items,omitempty"`
}

// OrderCreated is the payload of order.created
type OrderCreated struct {
	Order
}

// OrderPaid is the payload of order.paid
type OrderPaid struct {
	Order
	PaymentID string `json:"payment_id,omitempty"`
}

// OrderRefunded is the payload of order.refunded
type OrderRefunded struct {
	OrderID     string `json:"order_id"`
	RefundID    string `json:"refund_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Reason      string `json:"reason,omitempty"`
}

// ProductStockLow is the payload of product.stock_low
type ProductStockLow struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku,omitempty"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

// CustomerCreated is the payload of customer.created
type CustomerCreated struct {
	CustomerID string `json:"customer_id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
}

// TestEvent is the payload of the test event
type TestEvent struct {
	Message string `json:"message"`
}

// NewTestEvent returns the fixed payload sent by test deliveries
func NewTestEvent() TestEvent {
	return TestEvent{Message: "This is a test webhook event"}
}

func (OrderCreated) EventType() string    { return EventTypeOrderCreated }
func (OrderPaid) EventType() string       { return EventTypeOrderPaid }
func (OrderRefunded) EventType() string   { return EventTypeOrderRefunded }
func (ProductStockLow) EventType() string { return EventTypeProductStockLow }
func (CustomerCreated) EventType() string { return EventTypeCustomerCreated }
func (TestEvent) EventType() string       { return EventTypeTest }

func (OrderCreated) isEvent()    {}
func (OrderPaid) isEvent()       {}
func (OrderRefunded) isEvent()   {}
func (ProductStockLow) isEvent() {}
func (CustomerCreated) isEvent() {}
func (TestEvent) isEvent()       {}

var decoders = map[string]func(data []byte) (Event, error){
	EventTypeOrderCreated:    decodeAs[OrderCreated],
	EventTypeOrderPaid:       decodeAs[OrderPaid],
	EventTypeOrderRefunded:   decodeAs[OrderRefunded],
	EventTypeProductStockLow: decodeAs[ProductStockLow],
	EventTypeCustomerCreated: decodeAs[CustomerCreated],
}

func decodeAs[T Event](data []byte) (Event, error) {
	var e T
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return e, nil
}

// Registry is the set of event types enabled for dispatch and subscription
type Registry struct {
	types map[string]struct{}
}

// NewRegistry creates a registry of the given event types. Every type must have a known payload.
func NewRegistry(eventTypes []string) (*Registry, error) {
	if len(eventTypes) == 0 {
		return nil, fmt.Errorf("at least one event type must be enabled")
	}

	r := &Registry{types: make(map[string]struct{}, len(eventTypes))}
	for _, t := range eventTypes {
		if _, ok := decoders[t]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, t)
		}
		r.types[t] = struct{}{}
	}
	return r, nil
}

// Known reports whether the event type is enabled
func (r *Registry) Known(eventType string) bool {
	_, ok := r.types[eventType]
	return ok
}

// Types returns the enabled event types in lexical order
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.types))
	for t := range r.types {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Subscribable reports whether a subscription may filter on the given value
func (r *Registry) Subscribable(eventType string) bool {
	return eventType == EventTypeWildcard || r.Known(eventType)
}

// Decode builds the typed event for eventType from its JSON payload
func (r *Registry) Decode(eventType string, data []byte) (Event, error) {
	if !r.Known(eventType) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
	}
	if len(data) == 0 {
		data = []byte("{}")
	}

	e, err := decoders[eventType](data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", eventType, err)
	}
	return e, nil
}
