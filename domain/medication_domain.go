package domain

import (
	"mime/multipart"
	"time"
)

var (
	MessageSuccessAddMedication     = "medication added successfully"
	MessageSuccessUpdateMedication  = "medication updated successfully"
	MessageSuccessUpdateQuantity    = "medication quantity updated successfully"
	MessageSuccessDeleteMedication  = "medication deleted successfully"
	MessageSuccessGetMedications    = "medications retrieved successfully"
	MessageSuccessUploadPhoto       = "medication photo uploaded successfully"
	MessageSuccessGetDashboardStats = "dashboard statistics retrieved successfully"

	MessageFailedAddMedication     = "failed to add medication"
	MessageFailedUpdateMedication  = "failed to update medication"
	MessageFailedUpdateQuantity    = "failed to update medication quantity"
	MessageFailedDeleteMedication  = "failed to delete medication"
	MessageFailedGetMedications    = "failed to retrieve medications"
	MessageFailedUploadPhoto       = "failed to upload medication photo"
	MessageFailedGetDashboardStats = "failed to retrieve dashboard statistics"
)

// MedicationKinds is the closed set of accepted dosage forms.
var MedicationKinds = []string{
	"tablet", "capsule", "liquid", "spray", "cream",
	"ointment", "gel", "drops", "injectable", "other",
}

func IsValidKind(kind string) bool {
	for _, k := range MedicationKinds {
		if k == kind {
			return true
		}
	}
	return false
}

const ExpiryDateLayout = "2006-01-02"

type (
	AddMedicationRequest struct {
		Name            string `json:"name" validate:"required,max=200"`
		ActiveSubstance string `json:"active_substance" validate:"required,max=200"`
		IsGeneric       bool   `json:"is_generic"`
		Brand           string `json:"brand" validate:"omitempty,max=200"`
		Manufacturer    string `json:"manufacturer" validate:"omitempty,max=200"`
		Dosage          string `json:"dosage" validate:"omitempty,max=200"`
		Kind            string `json:"kind" validate:"required"`
		ExpiryDate      string `json:"expiry_date" validate:"required"`
		TotalQuantity   int    `json:"total_quantity" validate:"required"`
		CurrentQuantity int    `json:"current_quantity"`
		Notes           string `json:"notes" validate:"omitempty,max=1000"`
	}

	// UpdateMedicationRequest is a partial update: nil fields are left
	// untouched on the persisted record.
	UpdateMedicationRequest struct {
		Name            *string `json:"name" validate:"omitempty,max=200"`
		ActiveSubstance *string `json:"active_substance" validate:"omitempty,max=200"`
		IsGeneric       *bool   `json:"is_generic"`
		Brand           *string `json:"brand" validate:"omitempty,max=200"`
		Manufacturer    *string `json:"manufacturer" validate:"omitempty,max=200"`
		Dosage          *string `json:"dosage" validate:"omitempty,max=200"`
		Kind            *string `json:"kind"`
		ExpiryDate      *string `json:"expiry_date"`
		CurrentQuantity *int    `json:"current_quantity"`
		Notes           *string `json:"notes" validate:"omitempty,max=1000"`
	}

	UpdateQuantityRequest struct {
		CurrentQuantity *int `json:"current_quantity" validate:"required"`
	}

	UploadMedicationPhotoRequest struct {
		MedicationID string                `json:"medication_id" form:"medication_id" validate:"required,uuid"`
		Photo        *multipart.FileHeader `json:"photo" form:"photo" validate:"required"`
	}

	MedicationItemResponse struct {
		ID              string    `json:"id"`
		Name            string    `json:"name"`
		ActiveSubstance string    `json:"active_substance"`
		IsGeneric       bool      `json:"is_generic"`
		Brand           string    `json:"brand,omitempty"`
		Manufacturer    string    `json:"manufacturer,omitempty"`
		Dosage          string    `json:"dosage,omitempty"`
		Kind            string    `json:"kind"`
		ExpiryDate      string    `json:"expiry_date"`
		Status          string    `json:"freshness_status"`
		TotalQuantity   int       `json:"total_quantity"`
		CurrentQuantity int       `json:"current_quantity"`
		PhotoURL        string    `json:"photo_url,omitempty"`
		Notes           string    `json:"notes,omitempty"`
		OwnerID         string    `json:"owner_id"`
		CreatedAt       time.Time `json:"created_at"`
		UpdatedAt       time.Time `json:"updated_at"`
	}

	MedicationListResponse struct {
		Items    []MedicationItemResponse `json:"items"`
		Total    int                      `json:"total"`
		Page     int                      `json:"page,omitempty"`
		PageSize int                      `json:"page_size,omitempty"`
	}

	DashboardStatsResponse struct {
		TotalItems        int `json:"total_items"`
		FreshItems        int `json:"fresh_items"`
		ExpiringSoonItems int `json:"expiring_soon_items"`
		ExpiredItems      int `json:"expired_items"`
		LowStockItems     int `json:"low_stock_items"`
	}

	// MedicationFilters drives both the pushdown query and the in-memory
	// refinement pass. Unknown values are ignored rather than rejected.
	MedicationFilters struct {
		Text          string `json:"text,omitempty"`
		Status        string `json:"status,omitempty"`
		Kind          string `json:"kind,omitempty"`
		IsGeneric     *bool  `json:"is_generic,omitempty"`
		Manufacturer  string `json:"manufacturer,omitempty"`
		SortField     string `json:"sort_field,omitempty"`
		SortDirection string `json:"sort_direction,omitempty"`
		Page          int    `json:"page,omitempty"`
		Limit         int    `json:"limit,omitempty"`
	}

	// MedicationFilterPatch merges into existing filters; nil fields are
	// left unchanged.
	MedicationFilterPatch struct {
		Text          *string
		Status        *string
		Kind          *string
		IsGeneric     *bool
		Manufacturer  *string
		SortField     *string
		SortDirection *string
		Page          *int
		Limit         *int
	}
)
