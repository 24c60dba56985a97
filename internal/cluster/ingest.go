package cluster

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// wrappedFeed is the envelope the legacy order endpoint returns:
// { data: [ { orders: [ {...}, ... ] } ] }
type wrappedFeed struct {
	Data []struct {
		Orders []map[string]any `json:"orders"`
	} `json:"data"`
}

// FlattenOrderFeed parses an upstream order feed into the engine's strict
// Order shape. Both the wrapped envelope and a flat array of raw order
// objects are accepted. Records whose id cannot be resolved are dropped;
// duplicate ids keep the first occurrence. Malformed coordinate or address
// fields degrade to absent values, never to errors.
func FlattenOrderFeed(body []byte) ([]Order, error) {
	raws, err := rawOrders(body)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	orders := make([]Order, 0, len(raws))
	for _, raw := range raws {
		o, ok := orderFromRaw(raw)
		if !ok || seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		orders = append(orders, o)
	}
	return orders, nil
}

func rawOrders(body []byte) ([]map[string]any, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var flat []map[string]any
		if err := json.Unmarshal(body, &flat); err != nil {
			return nil, fmt.Errorf("failed to parse order feed: %w", err)
		}
		return flat, nil
	}

	var wrapped wrappedFeed
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse order feed: %w", err)
	}
	var raws []map[string]any
	for _, page := range wrapped.Data {
		raws = append(raws, page.Orders...)
	}
	return raws, nil
}

// orderFromRaw normalizes one raw record. This is the single place that
// knows about historical field spellings; everything past here sees the
// strict Order type only.
func orderFromRaw(raw map[string]any) (Order, bool) {
	id := firstString(raw, "id", "order_id", "_id", "code", "order_code")
	if id == "" {
		return Order{}, false
	}

	code := firstString(raw, "code", "order_code", "order_no")
	if code == "" {
		code = id
	}

	o := Order{
		ID:        id,
		Code:      code,
		NumericID: firstNumeric(raw, "numeric_id", "order_id_numeric", "id", "order_id"),
		Status:    firstString(raw, "status", "order_status", "state"),
		Address:   firstAddress(raw),
		Raw:       raw,
	}

	if p, ok := ExtractCoords(raw); ok {
		o.Coords = &p
	}
	return o, true
}

func firstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case string:
			s := strings.TrimSpace(v)
			if s != "" && !strings.EqualFold(s, "null") && !strings.EqualFold(s, "undefined") {
				return s
			}
		case float64:
			if v == math.Trunc(v) {
				return strconv.FormatInt(int64(v), 10)
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func firstNumeric(raw map[string]any, keys ...string) int64 {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case float64:
			if v == math.Trunc(v) && v > 0 {
				return int64(v)
			}
		case json.Number:
			if n, err := v.Int64(); err == nil && n > 0 {
				return n
			}
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}

func firstAddress(raw map[string]any) string {
	if s := firstString(raw, "address", "delivery_address", "drop_address", "customer_address"); s != "" {
		return s
	}
	// Address may live inside the deliver-to object as either a string or
	// an object with its own text field
	for _, key := range coordObjectKeys {
		nested, ok := raw[key].(map[string]any)
		if !ok {
			continue
		}
		if s := firstString(nested, "address", "address_text", "formatted_address"); s != "" {
			return s
		}
	}
	return ""
}
