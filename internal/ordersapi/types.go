package ordersapi

import (
	"encoding/json"
	"math/rand/v2"
)

// Order is an order record as round-tripped through the API. The harness
// never validates field values; it only threads orderId into per-order URLs
// and version into update payloads.
type Order struct {
	OrderID       string `json:"orderId"`
	CustomerID    int    `json:"customerId"`
	PreTaxAmount  int    `json:"preTaxAmount"`
	PostTaxAmount int    `json:"postTaxAmount"`

	// Version is the service's optimistic-concurrency token. It is opaque to
	// the harness and kept as raw JSON so numbers, strings, or anything else
	// the service emits round-trips byte-identically into update requests.
	Version json.RawMessage `json:"version"`
}

// OrderList is the response shape of the list-orders endpoint.
type OrderList struct {
	Orders []Order `json:"orders"`
}

// OrderPayload is the request body for order creation and updates. Version is
// omitted on creation and carries the last observed token on updates.
type OrderPayload struct {
	CustomerID    int             `json:"customerId"`
	PreTaxAmount  int             `json:"preTaxAmount"`
	PostTaxAmount int             `json:"postTaxAmount"`
	Version       json.RawMessage `json:"version,omitempty"`
}

// Randomized field ranges, inclusive on both ends. Creation uses small values
// so updated orders are visibly distinguishable in the printed output.
const (
	CreateFieldMin = 1
	CreateFieldMax = 50
	UpdateFieldMin = 5000
	UpdateFieldMax = 6000
)

// NewCreateOrder builds a creation payload with each numeric field drawn
// uniformly from [CreateFieldMin, CreateFieldMax].
func NewCreateOrder() OrderPayload {
	return OrderPayload{
		CustomerID:    randBetween(CreateFieldMin, CreateFieldMax),
		PreTaxAmount:  randBetween(CreateFieldMin, CreateFieldMax),
		PostTaxAmount: randBetween(CreateFieldMin, CreateFieldMax),
	}
}

// NewUpdateOrder builds an update payload with each numeric field drawn
// uniformly from [UpdateFieldMin, UpdateFieldMax], carrying the given version
// token unchanged so the service can detect stale updates.
func NewUpdateOrder(version json.RawMessage) OrderPayload {
	return OrderPayload{
		CustomerID:    randBetween(UpdateFieldMin, UpdateFieldMax),
		PreTaxAmount:  randBetween(UpdateFieldMin, UpdateFieldMax),
		PostTaxAmount: randBetween(UpdateFieldMin, UpdateFieldMax),
		Version:       version,
	}
}

func randBetween(lo, hi int) int {
	return lo + rand.IntN(hi-lo+1)
}
