package models

import "dispatchly-backend/internal/cluster"

// Order is a delivery order as stored in Postgres. Status is kept raw
// exactly as the upstream reported it; normalization happens on read via
// the cluster package so historical rows with legacy spellings keep working.
type Order struct {
	ID           string   `json:"id" db:"id"`
	Code         string   `json:"code" db:"code"`
	NumericID    *int64   `json:"numeric_id,omitempty" db:"numeric_id"`
	BusinessID   int64    `json:"business_id" db:"business_id"`
	Status       string   `json:"status" db:"status"`
	Address      string   `json:"address" db:"address"`
	Latitude     *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude    *float64 `json:"longitude,omitempty" db:"longitude"`
	CustomerName *string  `json:"customer_name,omitempty" db:"customer_name"`
	TotalAmount  *float64 `json:"total_amount,omitempty" db:"total_amount"`
	CreatedAt    int64    `json:"created_at" db:"created_at"`
	UpdatedAt    int64    `json:"updated_at" db:"updated_at"`
}

// OrderResponse is the API shape; it carries the normalized status
// alongside the raw one so clients stop re-implementing the folding rules
type OrderResponse struct {
	Order
	NormalizedStatus string `json:"normalized_status"`
}

func (o *Order) ToOrderResponse() OrderResponse {
	return OrderResponse{
		Order:            *o,
		NormalizedStatus: string(cluster.NormalizeStatus(o.Status)),
	}
}

// ToClusterOrder converts a stored order into the clustering engine's shape
func (o *Order) ToClusterOrder() cluster.Order {
	co := cluster.Order{
		ID:      o.ID,
		Code:    o.Code,
		Status:  o.Status,
		Address: o.Address,
	}
	if o.NumericID != nil {
		co.NumericID = *o.NumericID
	}
	if o.Latitude != nil && o.Longitude != nil {
		co.Coords = &cluster.GeoPoint{Lat: *o.Latitude, Lng: *o.Longitude}
	}
	return co
}

// UpdateOrderStatusRequest is the request body for PATCH /api/orders/:id/status
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
