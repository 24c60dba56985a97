package handlers

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"dispatchly-backend/internal/middleware"
	"dispatchly-backend/internal/models"
	"dispatchly-backend/internal/services"
	"dispatchly-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// GetBusiness returns the merchant's business profile. Businesses created
// before coordinates were collected get geocoded lazily from their address;
// a geocoding failure is not fatal - the profile is returned without
// coordinates and the tracking map falls back to fitting order markers.
func GetBusiness(db *sqlx.DB, geocoder *services.GeocodingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var business models.Business
		err := db.Get(&business, "SELECT * FROM businesses WHERE id = $1", claims.BusinessID)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Business not found")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		if !business.HasCoordinates() && geocoder != nil && business.Address != "" {
			ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
			defer cancel()

			coords, err := geocoder.Geocode(ctx, business.Address)
			if err != nil {
				log.Printf("⚠️ Geocoding failed for business %d: %v", business.ID, err)
			} else {
				business.Latitude = &coords.Lat
				business.Longitude = &coords.Lng

				if _, err := db.Exec(`
					UPDATE businesses SET latitude = $1, longitude = $2, updated_at = $3 WHERE id = $4
				`, coords.Lat, coords.Lng, time.Now().Unix(), business.ID); err != nil {
					log.Printf("⚠️ Failed to store geocoded coordinates: %v", err)
				}
			}
		}

		utils.RespondJSON(w, http.StatusOK, business)
	}
}
