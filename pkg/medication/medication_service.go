package medication

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"MedTrack-Backend/domain"
	"MedTrack-Backend/entities"
	"MedTrack-Backend/internal/utils/storage"
)

const (
	maxNameLength  = 200
	maxNotesLength = 1000

	defaultPageSize = 20
)

type (
	MedicationService interface {
		List(ctx context.Context, ownerID string, filters domain.MedicationFilters) (domain.MedicationListResponse, error)
		GetByID(ctx context.Context, id string, ownerID string) (domain.MedicationItemResponse, error)
		Create(ctx context.Context, req domain.AddMedicationRequest, ownerID string) (domain.MedicationItemResponse, error)
		Update(ctx context.Context, id string, req domain.UpdateMedicationRequest, ownerID string) (domain.MedicationItemResponse, error)
		UpdateQuantity(ctx context.Context, id string, currentQuantity int, ownerID string) (domain.MedicationItemResponse, error)
		Delete(ctx context.Context, id string, ownerID string) error
		GetStatistics(ctx context.Context, ownerID string) (domain.DashboardStatsResponse, error)
		UploadPhoto(ctx context.Context, req domain.UploadMedicationPhotoRequest, ownerID string) (domain.MedicationItemResponse, error)
	}

	medicationService struct {
		medicationRepository MedicationRepository
		s3                   storage.AwsS3
	}
)

func NewMedicationService(medicationRepository MedicationRepository, s3 storage.AwsS3) MedicationService {
	return &medicationService{
		medicationRepository: medicationRepository,
		s3:                   s3,
	}
}

// List pushes the equality filters and one sort field down to the gateway,
// then refines the returned page in memory for the predicates the gateway
// cannot evaluate (derived status, free-text search). Total is the
// post-refinement count, so a status-filtered page can come back shorter
// than the requested limit even when more matches exist further on.
func (s *medicationService) List(ctx context.Context, ownerID string, filters domain.MedicationFilters) (domain.MedicationListResponse, error) {
	filters = normalizeFilters(filters)

	query := ListQuery{
		Kind:         filters.Kind,
		IsGeneric:    filters.IsGeneric,
		Manufacturer: strings.TrimSpace(filters.Manufacturer),
		SortColumn:   sortColumn(filters.SortField),
		SortDesc:     filters.SortDirection == SortDesc,
		Limit:        filters.Limit,
		Offset:       (filters.Page - 1) * filters.Limit,
	}

	records, err := s.medicationRepository.FindAll(ctx, ownerID, query)
	if err != nil {
		return domain.MedicationListResponse{}, err
	}

	now := time.Now()
	items := make([]domain.MedicationItemResponse, 0, len(records))
	for _, record := range records {
		items = append(items, toResponse(record, now))
	}

	// In-memory refinement: only what the gateway could not push down.
	items = ApplyFilters(items, domain.MedicationFilters{
		Text:   filters.Text,
		Status: filters.Status,
	})

	return domain.MedicationListResponse{
		Items:    items,
		Total:    len(items),
		Page:     filters.Page,
		PageSize: filters.Limit,
	}, nil
}

func (s *medicationService) GetByID(ctx context.Context, id string, ownerID string) (domain.MedicationItemResponse, error) {
	item, err := s.medicationRepository.FindByID(ctx, id, ownerID)
	if err != nil {
		return domain.MedicationItemResponse{}, err
	}
	return toResponse(item, time.Now()), nil
}

func (s *medicationService) Create(ctx context.Context, req domain.AddMedicationRequest, ownerID string) (domain.MedicationItemResponse, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return domain.MedicationItemResponse{}, domain.ErrParseUUID
	}

	req.Name = strings.TrimSpace(req.Name)
	req.ActiveSubstance = strings.TrimSpace(req.ActiveSubstance)
	req.Brand = strings.TrimSpace(req.Brand)
	req.Manufacturer = strings.TrimSpace(req.Manufacturer)
	req.Dosage = strings.TrimSpace(req.Dosage)
	req.Notes = strings.TrimSpace(req.Notes)

	var violations []string
	violations = appendRequiredString(violations, "name", req.Name)
	violations = appendRequiredString(violations, "active substance", req.ActiveSubstance)
	if !domain.IsValidKind(req.Kind) {
		violations = append(violations, fmt.Sprintf("kind %q is not a recognized dosage form", req.Kind))
	}
	expiryDate, dateErr := parseExpiryDate(req.ExpiryDate)
	if dateErr != nil {
		violations = append(violations, dateErr.Error())
	}
	if len(req.Notes) > maxNotesLength {
		violations = append(violations, "notes must be at most 1000 characters")
	}
	violations = appendQuantityViolations(violations, req.CurrentQuantity, req.TotalQuantity)

	if len(violations) > 0 {
		return domain.MedicationItemResponse{}, domain.NewValidationError(violations...)
	}

	item := &entities.MedicationItem{
		ID:              uuid.New(),
		OwnerID:         ownerUUID,
		Name:            req.Name,
		ActiveSubstance: req.ActiveSubstance,
		IsGeneric:       req.IsGeneric,
		Brand:           req.Brand,
		Manufacturer:    req.Manufacturer,
		Dosage:          req.Dosage,
		Kind:            req.Kind,
		ExpiryDate:      expiryDate,
		TotalQuantity:   req.TotalQuantity,
		CurrentQuantity: req.CurrentQuantity,
		Notes:           req.Notes,
	}

	if err := s.medicationRepository.Insert(ctx, item); err != nil {
		return domain.MedicationItemResponse{}, err
	}

	return toResponse(item, time.Now()), nil
}

func (s *medicationService) Update(ctx context.Context, id string, req domain.UpdateMedicationRequest, ownerID string) (domain.MedicationItemResponse, error) {
	item, err := s.medicationRepository.FindByID(ctx, id, ownerID)
	if err != nil {
		return domain.MedicationItemResponse{}, err
	}

	var violations []string

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		violations = appendRequiredString(violations, "name", name)
		item.Name = name
	}
	if req.ActiveSubstance != nil {
		substance := strings.TrimSpace(*req.ActiveSubstance)
		violations = appendRequiredString(violations, "active substance", substance)
		item.ActiveSubstance = substance
	}
	if req.IsGeneric != nil {
		item.IsGeneric = *req.IsGeneric
	}
	if req.Brand != nil {
		item.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Manufacturer != nil {
		item.Manufacturer = strings.TrimSpace(*req.Manufacturer)
	}
	if req.Dosage != nil {
		item.Dosage = strings.TrimSpace(*req.Dosage)
	}
	if req.Kind != nil {
		if !domain.IsValidKind(*req.Kind) {
			violations = append(violations, fmt.Sprintf("kind %q is not a recognized dosage form", *req.Kind))
		} else {
			item.Kind = *req.Kind
		}
	}
	if req.ExpiryDate != nil {
		expiryDate, dateErr := parseExpiryDate(*req.ExpiryDate)
		if dateErr != nil {
			violations = append(violations, dateErr.Error())
		} else {
			item.ExpiryDate = expiryDate
		}
	}
	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		if len(notes) > maxNotesLength {
			violations = append(violations, "notes must be at most 1000 characters")
		} else {
			item.Notes = notes
		}
	}
	if req.CurrentQuantity != nil {
		item.CurrentQuantity = *req.CurrentQuantity
	}

	// Total quantity is fixed at creation, so the partial path validates
	// the effective current against the persisted pack size.
	violations = appendQuantityViolations(violations, item.CurrentQuantity, item.TotalQuantity)

	if len(violations) > 0 {
		return domain.MedicationItemResponse{}, domain.NewValidationError(violations...)
	}

	if err := s.medicationRepository.Save(ctx, item); err != nil {
		return domain.MedicationItemResponse{}, err
	}

	return toResponse(item, time.Now()), nil
}

// UpdateQuantity is the dedicated quantity-only mutation. It has to fetch
// the record first, since only the new current quantity is supplied and the
// ceiling is the persisted pack size.
func (s *medicationService) UpdateQuantity(ctx context.Context, id string, currentQuantity int, ownerID string) (domain.MedicationItemResponse, error) {
	if currentQuantity < 0 {
		return domain.MedicationItemResponse{}, domain.NewValidationError("current quantity must not be negative")
	}

	item, err := s.medicationRepository.FindByID(ctx, id, ownerID)
	if err != nil {
		return domain.MedicationItemResponse{}, err
	}

	if err := CheckWithinTotal(currentQuantity, item.TotalQuantity); err != nil {
		return domain.MedicationItemResponse{}, err
	}

	item.CurrentQuantity = currentQuantity

	if err := s.medicationRepository.Save(ctx, item); err != nil {
		return domain.MedicationItemResponse{}, err
	}

	return toResponse(item, time.Now()), nil
}

func (s *medicationService) Delete(ctx context.Context, id string, ownerID string) error {
	item, err := s.medicationRepository.FindByID(ctx, id, ownerID)
	if err != nil {
		return err
	}

	// Best-effort cleanup: losing an orphaned photo object must not block
	// the delete itself.
	if item.PhotoURL != "" {
		objectKey := s.s3.GetObjectKeyFromLink(item.PhotoURL)
		if objectKey != "" {
			if err := s.s3.DeleteFile(objectKey); err != nil {
				log.Printf("failed to delete photo for medication %s: %v", id, err)
			}
		}
	}

	return s.medicationRepository.Delete(ctx, id, ownerID)
}

// GetStatistics derives status per item at read time; nothing here trusts a
// stored status column, because there is none.
func (s *medicationService) GetStatistics(ctx context.Context, ownerID string) (domain.DashboardStatsResponse, error) {
	records, err := s.medicationRepository.FindAll(ctx, ownerID, ListQuery{})
	if err != nil {
		return domain.DashboardStatsResponse{}, err
	}

	now := time.Now()
	stats := domain.DashboardStatsResponse{TotalItems: len(records)}
	for _, record := range records {
		switch DeriveStatus(record.ExpiryDate, now) {
		case StatusFresh:
			stats.FreshItems++
		case StatusExpiringSoon:
			stats.ExpiringSoonItems++
		case StatusExpired:
			stats.ExpiredItems++
		}
		if isLowStock(record.CurrentQuantity, record.TotalQuantity) {
			stats.LowStockItems++
		}
	}

	return stats, nil
}

func (s *medicationService) UploadPhoto(ctx context.Context, req domain.UploadMedicationPhotoRequest, ownerID string) (domain.MedicationItemResponse, error) {
	item, err := s.medicationRepository.FindByID(ctx, req.MedicationID, ownerID)
	if err != nil {
		return domain.MedicationItemResponse{}, err
	}

	fileName := fmt.Sprintf("medication-%s", item.ID.String())
	var objectKey string
	var uploadErr error

	if item.PhotoURL != "" {
		existingKey := s.s3.GetObjectKeyFromLink(item.PhotoURL)
		if existingKey != "" {
			objectKey, uploadErr = s.s3.UpdateFile(existingKey, req.Photo, storage.AllowImage...)
		} else {
			objectKey, uploadErr = s.s3.UploadFile(fileName, req.Photo, "medications", storage.AllowImage...)
		}
	} else {
		objectKey, uploadErr = s.s3.UploadFile(fileName, req.Photo, "medications", storage.AllowImage...)
	}
	if uploadErr != nil {
		return domain.MedicationItemResponse{}, uploadErr
	}

	item.PhotoURL = s.s3.GetPublicLinkKey(objectKey)

	if err := s.medicationRepository.Save(ctx, item); err != nil {
		return domain.MedicationItemResponse{}, err
	}

	return toResponse(item, time.Now()), nil
}

// isLowStock applies the 20% threshold, inclusive at the boundary.
func isLowStock(current, total int) bool {
	return total > 0 && current*5 <= total
}

func appendRequiredString(violations []string, field, value string) []string {
	if value == "" {
		return append(violations, field+" is required")
	}
	if len(value) > maxNameLength {
		return append(violations, field+" must be at most 200 characters")
	}
	return violations
}

func appendQuantityViolations(violations []string, current, total int) []string {
	var quantityErr *domain.ValidationError
	if err := ValidateQuantities(current, total); errors.As(err, &quantityErr) {
		violations = append(violations, quantityErr.Violations...)
	}
	return violations
}

func parseExpiryDate(value string) (time.Time, error) {
	expiryDate, err := time.Parse(domain.ExpiryDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("expiry date %q is not a valid YYYY-MM-DD calendar date", value)
	}
	return expiryDate, nil
}

// normalizeFilters drops malformed values instead of failing: an unknown
// status, kind or sort field behaves as if it were absent.
func normalizeFilters(filters domain.MedicationFilters) domain.MedicationFilters {
	if !IsValidStatus(filters.Status) {
		filters.Status = ""
	}
	if !domain.IsValidKind(filters.Kind) {
		filters.Kind = ""
	}
	if sortColumn(filters.SortField) == "" {
		filters.SortField = ""
	}
	if filters.SortDirection != SortDesc {
		filters.SortDirection = SortAsc
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 {
		filters.Limit = defaultPageSize
	}
	return filters
}

// sortColumn maps a requested sort field to the column the gateway may
// order by. One field per call; anything unrecognized is ignored.
func sortColumn(field string) string {
	switch field {
	case SortByName, SortByActiveSubstance, SortByBrand, SortByManufacturer,
		SortByExpiryDate, SortByCurrentQuantity, SortByCreatedAt:
		return field
	}
	return ""
}

func toResponse(item *entities.MedicationItem, now time.Time) domain.MedicationItemResponse {
	return domain.MedicationItemResponse{
		ID:              item.ID.String(),
		Name:            item.Name,
		ActiveSubstance: item.ActiveSubstance,
		IsGeneric:       item.IsGeneric,
		Brand:           item.Brand,
		Manufacturer:    item.Manufacturer,
		Dosage:          item.Dosage,
		Kind:            item.Kind,
		ExpiryDate:      item.ExpiryDate.Format(domain.ExpiryDateLayout),
		Status:          string(DeriveStatus(item.ExpiryDate, now)),
		TotalQuantity:   item.TotalQuantity,
		CurrentQuantity: item.CurrentQuantity,
		PhotoURL:        item.PhotoURL,
		Notes:           item.Notes,
		OwnerID:         item.OwnerID.String(),
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}
