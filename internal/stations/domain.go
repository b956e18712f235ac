// Package stations maintains the station and fuel product master data the
// reconciliation engine keys its records against.
package stations

import (
	"fmt"
	"time"

	"github.com/petrodesk/petrodesk/internal/platform/httpx"
)

var (
	// ErrNotFound indicates the station or product does not exist.
	ErrNotFound = fmt.Errorf("stations: not found: %w", httpx.ErrNotFound)
	// ErrDuplicateCode indicates the code is already taken.
	ErrDuplicateCode = fmt.Errorf("stations: code already in use: %w", httpx.ErrDuplicate)
)

// Station is one fuel station. CommissionRate is the dealer commission per
// liter sold; zero means not configured and disables projections.
type Station struct {
	ID             int64     `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	CommissionRate float64   `json:"commission_rate"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Product is one fuel grade sold at the stations. Volumes are recorded in
// liters for every product.
type Product struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
