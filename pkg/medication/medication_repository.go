package medication

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"MedTrack-Backend/domain"
	"MedTrack-Backend/entities"
)

// ListQuery is the subset of filtering the remote layer can evaluate:
// equality on indexed columns, exactly one sort field, and a page window.
type ListQuery struct {
	Kind         string
	IsGeneric    *bool
	Manufacturer string
	SortColumn   string
	SortDesc     bool
	Limit        int
	Offset       int
}

type (
	MedicationRepository interface {
		Insert(ctx context.Context, item *entities.MedicationItem) error
		FindByID(ctx context.Context, id string, ownerID string) (*entities.MedicationItem, error)
		FindAll(ctx context.Context, ownerID string, query ListQuery) ([]*entities.MedicationItem, error)
		Save(ctx context.Context, item *entities.MedicationItem) error
		Delete(ctx context.Context, id string, ownerID string) error
		Count(ctx context.Context, ownerID string) (int64, error)
	}

	medicationRepository struct {
		db *gorm.DB
	}
)

func NewMedicationRepository(db *gorm.DB) MedicationRepository {
	return &medicationRepository{db: db}
}

func (r *medicationRepository) Insert(ctx context.Context, item *entities.MedicationItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return &domain.GatewayError{Op: "insert medication", Err: err}
	}
	return nil
}

// FindByID scopes by owner in the query itself, so another owner's id is
// structurally indistinguishable from a missing one.
func (r *medicationRepository) FindByID(ctx context.Context, id string, ownerID string) (*entities.MedicationItem, error) {
	var item entities.MedicationItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Resource: "medication"}
		}
		return nil, &domain.GatewayError{Op: "find medication", Err: err}
	}
	return &item, nil
}

func (r *medicationRepository) FindAll(ctx context.Context, ownerID string, query ListQuery) ([]*entities.MedicationItem, error) {
	var items []*entities.MedicationItem

	tx := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)

	if query.Kind != "" {
		tx = tx.Where("kind = ?", query.Kind)
	}
	if query.IsGeneric != nil {
		tx = tx.Where("is_generic = ?", *query.IsGeneric)
	}
	if query.Manufacturer != "" {
		tx = tx.Where("manufacturer = ?", query.Manufacturer)
	}

	order := "expiry_date asc"
	if query.SortColumn != "" {
		order = query.SortColumn + " asc"
		if query.SortDesc {
			order = query.SortColumn + " desc"
		}
	}
	tx = tx.Order(order)

	if query.Limit > 0 {
		tx = tx.Offset(query.Offset).Limit(query.Limit)
	}

	if err := tx.Find(&items).Error; err != nil {
		return nil, &domain.GatewayError{Op: "list medications", Err: err}
	}
	return items, nil
}

func (r *medicationRepository) Save(ctx context.Context, item *entities.MedicationItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return &domain.GatewayError{Op: "update medication", Err: err}
	}
	return nil
}

// Delete is a hard delete. Deleting an id that is absent (or not owned by
// the caller) reports not-found rather than succeeding silently.
func (r *medicationRepository) Delete(ctx context.Context, id string, ownerID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&entities.MedicationItem{})
	if result.Error != nil {
		return &domain.GatewayError{Op: "delete medication", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return &domain.NotFoundError{Resource: "medication"}
	}
	return nil
}

func (r *medicationRepository) Count(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.MedicationItem{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	if err != nil {
		return 0, &domain.GatewayError{Op: "count medications", Err: err}
	}
	return count, nil
}
