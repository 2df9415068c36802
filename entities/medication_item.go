package entities

import (
	"time"

	"github.com/google/uuid"
)

// MedicationItem is the persisted record. Freshness status is never stored;
// it is derived from ExpiryDate on every read.
type MedicationItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OwnerID         uuid.UUID `gorm:"index" json:"owner_id"`
	Name            string    `json:"name"`
	ActiveSubstance string    `json:"active_substance"`
	IsGeneric       bool      `json:"is_generic"`
	Brand           string    `json:"brand,omitempty"`
	Manufacturer    string    `gorm:"index" json:"manufacturer,omitempty"`
	Dosage          string    `json:"dosage,omitempty"`
	Kind            string    `gorm:"index" json:"kind"`
	ExpiryDate      time.Time `json:"expiry_date"`
	TotalQuantity   int       `json:"total_quantity"`
	CurrentQuantity int       `json:"current_quantity"`
	PhotoURL        string    `json:"photo_url,omitempty"`
	Notes           string    `json:"notes,omitempty"`

	Timestamp
}
