package medication

import (
	"context"
	"sync"

	"MedTrack-Backend/domain"
)

// MedicationStore is the client-side cache over MedicationService. It holds
// the last loaded page, the active filters and per-item in-flight markers.
// Every derived view (counts, filtered items) is recomputed from the cached
// items on each read; nothing derived is ever stored. Cache patches after a
// mutation always use the server's returned record, never a local guess,
// and always land in the slot of the item the call was issued against.
type MedicationStore struct {
	mu      sync.Mutex
	service MedicationService
	ownerID string

	items       []domain.MedicationItemResponse
	selected    *domain.MedicationItemResponse
	listLoading bool
	busy        map[string]struct{}
	lastErr     error
	filters     domain.MedicationFilters
}

func NewMedicationStore(service MedicationService, ownerID string) *MedicationStore {
	return &MedicationStore{
		service: service,
		ownerID: ownerID,
		busy:    make(map[string]struct{}),
	}
}

// LoadAll replaces the cached items wholesale with the service's result.
// The loading flag is cleared on every path, success or failure.
func (s *MedicationStore) LoadAll(ctx context.Context, filters domain.MedicationFilters) error {
	s.mu.Lock()
	s.listLoading = true
	s.lastErr = nil
	s.filters = filters
	s.mu.Unlock()

	result, err := s.service.List(ctx, s.ownerID, filters)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.listLoading = false
	if err != nil {
		s.lastErr = err
		return err
	}
	s.items = result.Items
	return nil
}

func (s *MedicationStore) Create(ctx context.Context, req domain.AddMedicationRequest) (domain.MedicationItemResponse, error) {
	created, err := s.service.Create(ctx, req, s.ownerID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		return domain.MedicationItemResponse{}, err
	}
	s.items = append(s.items, created)
	return created, nil
}

func (s *MedicationStore) Update(ctx context.Context, id string, req domain.UpdateMedicationRequest) (domain.MedicationItemResponse, error) {
	updated, err := s.service.Update(ctx, id, req, s.ownerID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		return domain.MedicationItemResponse{}, err
	}
	s.patchLocked(updated)
	return updated, nil
}

func (s *MedicationStore) Delete(ctx context.Context, id string) error {
	err := s.service.Delete(ctx, id, s.ownerID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		return err
	}
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	return nil
}

// UpdateQuantity marks only the affected item as busy for the duration of
// the round trip, so the UI can disable that item's controls without
// blocking the rest of the list. A negative target is rejected locally
// before any network call.
func (s *MedicationStore) UpdateQuantity(ctx context.Context, id string, currentQuantity int) error {
	if currentQuantity < 0 {
		return domain.NewValidationError("current quantity must not be negative")
	}

	s.markBusy(id)
	defer s.unmarkBusy(id)

	updated, err := s.service.UpdateQuantity(ctx, id, currentQuantity, s.ownerID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		return err
	}
	s.patchLocked(updated)
	return nil
}

func (s *MedicationStore) IncrementQuantity(ctx context.Context, id string) error {
	current, ok := s.cachedQuantity(id)
	if !ok {
		return &domain.NotFoundError{Resource: "medication"}
	}
	return s.UpdateQuantity(ctx, id, current+1)
}

func (s *MedicationStore) DecrementQuantity(ctx context.Context, id string) error {
	current, ok := s.cachedQuantity(id)
	if !ok {
		return &domain.NotFoundError{Resource: "medication"}
	}
	return s.UpdateQuantity(ctx, id, current-1)
}

// Select picks an item from the cache. It never contacts the service.
func (s *MedicationStore) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			item := s.items[i]
			s.selected = &item
			return true
		}
	}
	s.selected = nil
	return false
}

func (s *MedicationStore) Selected() (domain.MedicationItemResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return domain.MedicationItemResponse{}, false
	}
	return *s.selected, true
}

// Filter mutators only replace the active filter value. None of them
// trigger a fetch; FilteredItems reacting on the next read is the whole
// point.

func (s *MedicationStore) SetFilters(filters domain.MedicationFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters
}

func (s *MedicationStore) UpdateFilters(patch domain.MedicationFilterPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if patch.Text != nil {
		s.filters.Text = *patch.Text
	}
	if patch.Status != nil {
		s.filters.Status = *patch.Status
	}
	if patch.Kind != nil {
		s.filters.Kind = *patch.Kind
	}
	if patch.IsGeneric != nil {
		s.filters.IsGeneric = patch.IsGeneric
	}
	if patch.Manufacturer != nil {
		s.filters.Manufacturer = *patch.Manufacturer
	}
	if patch.SortField != nil {
		s.filters.SortField = *patch.SortField
	}
	if patch.SortDirection != nil {
		s.filters.SortDirection = *patch.SortDirection
	}
	if patch.Page != nil {
		s.filters.Page = *patch.Page
	}
	if patch.Limit != nil {
		s.filters.Limit = *patch.Limit
	}
}

func (s *MedicationStore) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = domain.MedicationFilters{}
}

func (s *MedicationStore) SetTextFilter(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Text = text
}

func (s *MedicationStore) SetStatusFilter(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Status = status
}

func (s *MedicationStore) SetSort(field, direction string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.SortField = field
	s.filters.SortDirection = direction
}

func (s *MedicationStore) Filters() domain.MedicationFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

func (s *MedicationStore) Items() []domain.MedicationItemResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.MedicationItemResponse(nil), s.items...)
}

// FilteredItems re-runs the same filter/sort logic the service uses, over
// the already-loaded cache, so the UI can re-filter without a round trip.
func (s *MedicationStore) FilteredItems() []domain.MedicationItemResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ApplyFilters(s.items, s.filters)
}

func (s *MedicationStore) ListLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLoading
}

func (s *MedicationStore) IsItemBusy(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.busy[id]
	return busy
}

func (s *MedicationStore) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *MedicationStore) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *MedicationStore) FreshCount() int {
	return s.countByStatus(StatusFresh)
}

func (s *MedicationStore) ExpiringSoonCount() int {
	return s.countByStatus(StatusExpiringSoon)
}

func (s *MedicationStore) ExpiredCount() int {
	return s.countByStatus(StatusExpired)
}

func (s *MedicationStore) LowStockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		if isLowStock(item.CurrentQuantity, item.TotalQuantity) {
			count++
		}
	}
	return count
}

func (s *MedicationStore) OutOfStockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		if item.CurrentQuantity <= 0 {
			count++
		}
	}
	return count
}

func (s *MedicationStore) countByStatus(status Status) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		if item.Status == string(status) {
			count++
		}
	}
	return count
}

// patchLocked replaces the cache slot matching the server record's id. A
// record for an id no longer in the cache is appended rather than dropped,
// so a late-resolving call still lands against its own item.
func (s *MedicationStore) patchLocked(updated domain.MedicationItemResponse) {
	for i := range s.items {
		if s.items[i].ID == updated.ID {
			s.items[i] = updated
			return
		}
	}
	s.items = append(s.items, updated)
}

func (s *MedicationStore) cachedQuantity(id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			return s.items[i].CurrentQuantity, true
		}
	}
	return 0, false
}

func (s *MedicationStore) markBusy(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy[id] = struct{}{}
}

func (s *MedicationStore) unmarkBusy(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, id)
}
