package models

// Business represents a merchant's store on the platform
type Business struct {
	ID        int64    `json:"id" db:"id"`
	Name      string   `json:"name" db:"name"`
	OwnerType string   `json:"owner_type" db:"owner_type"` // "restaurant" or "mart"
	Address   string   `json:"address" db:"address"`
	Latitude  *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude *float64 `json:"longitude,omitempty" db:"longitude"`
	CreatedAt int64    `json:"created_at" db:"created_at"`
	UpdatedAt int64    `json:"updated_at" db:"updated_at"`
}

// HasCoordinates reports whether the business has reference coordinates.
// Businesses created before geocoding was introduced lack them and get
// geocoded lazily on first read.
func (b *Business) HasCoordinates() bool {
	return b.Latitude != nil && b.Longitude != nil
}
