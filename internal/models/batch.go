package models

// Batch is a rider dispatch batch created from a cluster of READY orders
type Batch struct {
	ID              string  `json:"id" db:"id"`
	BusinessID      int64   `json:"business_id" db:"business_id"`
	MerchantID      int64   `json:"merchant_id" db:"merchant_id"`
	CreatedByUserID *string `json:"created_by_user_id,omitempty" db:"created_by_user_id"`
	OwnerType       *string `json:"owner_type,omitempty" db:"owner_type"`
	DeliveryOption  *string `json:"delivery_option,omitempty" db:"delivery_option"`
	OrderCount      int     `json:"order_count" db:"order_count"`
	CreatedAt       int64   `json:"created_at" db:"created_at"`
}

// BatchWithOrders is a batch plus its member order ids
type BatchWithOrders struct {
	Batch
	OrderIDs []string `json:"order_ids"`
}

// GroupNearbyRequest is the request body for POST /api/orders/group-nearby.
// order_ids duplicates order_codes because older backend revisions required
// one or the other; order_ids_numeric is present only when the upstream ever
// assigned numeric ids to these orders.
type GroupNearbyRequest struct {
	MerchantID      int64    `json:"merchant_id"`
	BusinessID      int64    `json:"business_id"`
	OrderCodes      []string `json:"order_codes"`
	OrderIDs        []string `json:"order_ids"`
	OrderIDsNumeric []int64  `json:"order_ids_numeric,omitempty"`
	OwnerType       *string  `json:"owner_type,omitempty"`
	DeliveryOption  *string  `json:"delivery_option,omitempty"`
}

// GroupNearbyResponse echoes the authoritative batch membership back to the
// client; the app re-fetches rather than reconciling drift locally
type GroupNearbyResponse struct {
	BatchID  string   `json:"batch_id"`
	OrderIDs []string `json:"order_ids"`
}
