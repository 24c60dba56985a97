package cluster

// Order is the strict, variant-free order shape the engine works with.
// Raw upstream records (with their many historical field spellings) are
// converted into this shape once, at the ingestion boundary, and never
// mutated afterwards - the engine only redistributes references into clusters.
type Order struct {
	ID        string         `json:"id"`
	Code      string         `json:"code"`
	NumericID int64          `json:"numeric_id,omitempty"` // 0 when the backend never assigned one
	Status    string         `json:"status"`
	Address   string         `json:"address,omitempty"`
	Coords    *GeoPoint      `json:"coords,omitempty"`
	Raw       map[string]any `json:"-"`
}

// Cluster groups orders that are all within the clustering radius of each other.
// IDs are stable only within a single clustering run.
type Cluster struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Members  []Order   `json:"members"`
	Centroid *GeoPoint `json:"centroid,omitempty"`
	NoCoords bool      `json:"no_coords"`
}
