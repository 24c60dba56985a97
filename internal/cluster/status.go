package cluster

import "strings"

// Status is the normalized order status
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusAccepted       Status = "ACCEPTED"
	StatusReady          Status = "READY"
	StatusAssigned       Status = "ASSIGNED"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusDeclined       Status = "DECLINED"
	StatusCancelled      Status = "CANCELLED"
	StatusUnknown        Status = "UNKNOWN"
)

// NormalizeStatus folds the many raw status spellings the backend has used
// over the years ("ON ROAD", "OUT_FOR_DELIVERY", "OnRoad", "Accept", ...)
// into the closed Status set. Case, whitespace, underscores and hyphens
// are all ignored.
func NormalizeStatus(raw string) Status {
	compact := strings.ToUpper(raw)
	compact = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(compact)

	switch compact {
	case "PENDING", "NEW", "PLACED":
		return StatusPending
	case "ACCEPT", "ACCEPTED", "CONFIRM", "CONFIRMED", "PREPARING":
		return StatusAccepted
	case "READY", "READYFORPICKUP", "PREPARED":
		return StatusReady
	case "ASSIGN", "ASSIGNED", "RIDERASSIGNED":
		return StatusAssigned
	case "ONROAD", "ONTHEROAD", "OUTFORDELIVERY", "ONDELIVERY", "PICKEDUP":
		return StatusOutForDelivery
	case "DELIVERED", "COMPLETE", "COMPLETED", "DONE":
		return StatusDelivered
	case "DECLINE", "DECLINED", "REJECT", "REJECTED":
		return StatusDeclined
	case "CANCEL", "CANCELED", "CANCELLED":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

// ClusterEligible reports whether an order participates in delivery batching.
// Orders that haven't been confirmed yet, or that are already finished,
// have no place in a live batching cluster. Everything else - including
// statuses we can't classify - stays in.
func ClusterEligible(s Status) bool {
	return s != StatusPending && s != StatusDelivered
}

// ListVisible reports whether an order appears on the order list screen.
// Only declined/rejected orders are hidden there.
func ListVisible(s Status) bool {
	return s != StatusDeclined
}

// Batchable reports whether an order may be selected into a dispatch batch.
// Only READY orders qualify.
func Batchable(s Status) bool {
	return s == StatusReady
}

// Trackable reports whether an order shows up on the tracking map
func Trackable(s Status) bool {
	return s == StatusAssigned || s == StatusOutForDelivery || s == StatusDelivered
}
