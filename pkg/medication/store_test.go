package medication

import (
	"context"
	"errors"
	"testing"

	"MedTrack-Backend/domain"
)

// fakeMedicationService scripts the server side of the store and counts
// round trips, so tests can assert which store operations hit the network.
type fakeMedicationService struct {
	listCalls     int
	listResult    domain.MedicationListResponse
	listErr       error
	quantityCalls int
	quantityFn    func(id string, currentQuantity int) (domain.MedicationItemResponse, error)
	createFn      func(req domain.AddMedicationRequest) (domain.MedicationItemResponse, error)
	updateFn      func(id string, req domain.UpdateMedicationRequest) (domain.MedicationItemResponse, error)
	deleteErr     error
}

func (f *fakeMedicationService) List(_ context.Context, _ string, _ domain.MedicationFilters) (domain.MedicationListResponse, error) {
	f.listCalls++
	return f.listResult, f.listErr
}

func (f *fakeMedicationService) GetByID(_ context.Context, _ string, _ string) (domain.MedicationItemResponse, error) {
	return domain.MedicationItemResponse{}, nil
}

func (f *fakeMedicationService) Create(_ context.Context, req domain.AddMedicationRequest, _ string) (domain.MedicationItemResponse, error) {
	if f.createFn != nil {
		return f.createFn(req)
	}
	return domain.MedicationItemResponse{}, nil
}

func (f *fakeMedicationService) Update(_ context.Context, id string, req domain.UpdateMedicationRequest, _ string) (domain.MedicationItemResponse, error) {
	if f.updateFn != nil {
		return f.updateFn(id, req)
	}
	return domain.MedicationItemResponse{}, nil
}

func (f *fakeMedicationService) UpdateQuantity(_ context.Context, id string, currentQuantity int, _ string) (domain.MedicationItemResponse, error) {
	f.quantityCalls++
	if f.quantityFn != nil {
		return f.quantityFn(id, currentQuantity)
	}
	return domain.MedicationItemResponse{ID: id, CurrentQuantity: currentQuantity}, nil
}

func (f *fakeMedicationService) Delete(_ context.Context, _ string, _ string) error {
	return f.deleteErr
}

func (f *fakeMedicationService) GetStatistics(_ context.Context, _ string) (domain.DashboardStatsResponse, error) {
	return domain.DashboardStatsResponse{}, nil
}

func (f *fakeMedicationService) UploadPhoto(_ context.Context, _ domain.UploadMedicationPhotoRequest, _ string) (domain.MedicationItemResponse, error) {
	return domain.MedicationItemResponse{}, nil
}

func loadedStore(t *testing.T, items ...domain.MedicationItemResponse) (*MedicationStore, *fakeMedicationService) {
	t.Helper()
	service := &fakeMedicationService{
		listResult: domain.MedicationListResponse{Items: items, Total: len(items)},
	}
	store := NewMedicationStore(service, ownerA)
	if err := store.LoadAll(context.Background(), domain.MedicationFilters{}); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	return store, service
}

func TestLoadAllReplacesItems(t *testing.T) {
	store, service := loadedStore(t,
		domain.MedicationItemResponse{ID: "1", Name: "Old"},
	)

	service.listResult = domain.MedicationListResponse{
		Items: []domain.MedicationItemResponse{{ID: "2", Name: "New"}},
		Total: 1,
	}
	if err := store.LoadAll(context.Background(), domain.MedicationFilters{}); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	items := store.Items()
	if len(items) != 1 || items[0].ID != "2" {
		t.Errorf("expected wholesale replacement with item 2, got %v", items)
	}
	if store.ListLoading() {
		t.Error("loading flag must be cleared after a successful load")
	}
}

func TestLoadAllFailureKeepsErrorAndClearsLoading(t *testing.T) {
	service := &fakeMedicationService{listErr: errors.New("gateway down")}
	store := NewMedicationStore(service, ownerA)

	if err := store.LoadAll(context.Background(), domain.MedicationFilters{}); err == nil {
		t.Fatal("expected load error")
	}
	if store.ListLoading() {
		t.Error("loading flag must be cleared even on failure")
	}
	if store.LastError() == nil {
		t.Error("expected last error to be recorded")
	}
}

func TestCreateAppendsServerCanonicalRecord(t *testing.T) {
	store, service := loadedStore(t)
	service.createFn = func(req domain.AddMedicationRequest) (domain.MedicationItemResponse, error) {
		// The server returns the canonical record: trimmed name, assigned id.
		return domain.MedicationItemResponse{ID: "srv-1", Name: "Aspirin"}, nil
	}

	if _, err := store.Create(context.Background(), domain.AddMedicationRequest{Name: "  Aspirin  "}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	items := store.Items()
	if len(items) != 1 || items[0].ID != "srv-1" || items[0].Name != "Aspirin" {
		t.Errorf("cache must hold the server's record, got %v", items)
	}
}

func TestUpdatePatchesCacheSlot(t *testing.T) {
	store, service := loadedStore(t,
		domain.MedicationItemResponse{ID: "1", Name: "Old", CurrentQuantity: 3},
		domain.MedicationItemResponse{ID: "2", Name: "Other"},
	)
	name := "Renamed"
	service.updateFn = func(id string, _ domain.UpdateMedicationRequest) (domain.MedicationItemResponse, error) {
		return domain.MedicationItemResponse{ID: id, Name: name, CurrentQuantity: 3}, nil
	}

	if _, err := store.Update(context.Background(), "1", domain.UpdateMedicationRequest{Name: &name}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	items := store.Items()
	if items[0].Name != "Renamed" || items[1].Name != "Other" {
		t.Errorf("expected only slot 1 patched, got %v", items)
	}
}

func TestDeleteRemovesFromCacheAndClearsSelection(t *testing.T) {
	store, _ := loadedStore(t,
		domain.MedicationItemResponse{ID: "1"},
		domain.MedicationItemResponse{ID: "2"},
	)
	store.Select("1")

	if err := store.Delete(context.Background(), "1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.TotalItems() != 1 {
		t.Errorf("expected 1 cached item, got %d", store.TotalItems())
	}
	if _, ok := store.Selected(); ok {
		t.Error("deleting the selected item must clear the selection")
	}
}

func TestUpdateQuantityMarksOnlyThatItemBusy(t *testing.T) {
	store, service := loadedStore(t,
		domain.MedicationItemResponse{ID: "1", CurrentQuantity: 5, TotalQuantity: 10},
		domain.MedicationItemResponse{ID: "2", CurrentQuantity: 5, TotalQuantity: 10},
	)

	service.quantityFn = func(id string, currentQuantity int) (domain.MedicationItemResponse, error) {
		if !store.IsItemBusy("1") {
			t.Error("item 1 must be busy while its call is in flight")
		}
		if store.IsItemBusy("2") {
			t.Error("item 2 must not be busy during item 1's call")
		}
		return domain.MedicationItemResponse{ID: id, CurrentQuantity: currentQuantity, TotalQuantity: 10}, nil
	}

	if err := store.UpdateQuantity(context.Background(), "1", 4); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if store.IsItemBusy("1") {
		t.Error("busy marker must be removed after the call")
	}
	if store.Items()[0].CurrentQuantity != 4 {
		t.Error("cache must be patched with the server result")
	}
}

func TestUpdateQuantityBusyClearedOnFailure(t *testing.T) {
	store, service := loadedStore(t, domain.MedicationItemResponse{ID: "1", CurrentQuantity: 5, TotalQuantity: 10})
	service.quantityFn = func(string, int) (domain.MedicationItemResponse, error) {
		return domain.MedicationItemResponse{}, &domain.BusinessRuleError{Rule: "too many"}
	}

	if err := store.UpdateQuantity(context.Background(), "1", 11); err == nil {
		t.Fatal("expected business rule error")
	}
	if store.IsItemBusy("1") {
		t.Error("busy marker must be removed regardless of outcome")
	}
}

func TestNegativeQuantityRejectedWithoutRoundTrip(t *testing.T) {
	store, service := loadedStore(t, domain.MedicationItemResponse{ID: "1", CurrentQuantity: 0, TotalQuantity: 10})

	if err := store.UpdateQuantity(context.Background(), "1", -1); !domain.IsValidation(err) {
		t.Fatalf("expected local validation error, got %v", err)
	}
	if err := store.DecrementQuantity(context.Background(), "1"); !domain.IsValidation(err) {
		t.Fatalf("expected local validation error on decrement below zero, got %v", err)
	}
	if service.quantityCalls != 0 {
		t.Errorf("expected no round trips, got %d", service.quantityCalls)
	}
}

func TestIncrementUsesCachedQuantity(t *testing.T) {
	store, _ := loadedStore(t, domain.MedicationItemResponse{ID: "1", CurrentQuantity: 5, TotalQuantity: 10})

	if err := store.IncrementQuantity(context.Background(), "1"); err != nil {
		t.Fatalf("IncrementQuantity: %v", err)
	}
	if got := store.Items()[0].CurrentQuantity; got != 6 {
		t.Errorf("expected quantity 6, got %d", got)
	}
}

func TestDerivedCountsRecomputedOnEveryRead(t *testing.T) {
	store, _ := loadedStore(t,
		domain.MedicationItemResponse{ID: "1", Status: "fresh", CurrentQuantity: 10, TotalQuantity: 10},
		domain.MedicationItemResponse{ID: "2", Status: "expired", CurrentQuantity: 0, TotalQuantity: 10},
		domain.MedicationItemResponse{ID: "3", Status: "expiring-soon", CurrentQuantity: 2, TotalQuantity: 10},
	)

	if store.FreshCount() != 1 || store.ExpiredCount() != 1 || store.ExpiringSoonCount() != 1 {
		t.Error("unexpected status counts")
	}
	if store.OutOfStockCount() != 1 {
		t.Errorf("expected 1 out-of-stock item, got %d", store.OutOfStockCount())
	}
	if store.LowStockCount() != 2 { // 0/10 and 2/10 are both at or below 20%
		t.Errorf("expected 2 low-stock items, got %d", store.LowStockCount())
	}

	if err := store.Delete(context.Background(), "2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.ExpiredCount() != 0 || store.TotalItems() != 2 {
		t.Error("counts must reflect the current cache with no staleness window")
	}
}

func TestFilterMutatorsNeverFetch(t *testing.T) {
	store, service := loadedStore(t,
		domain.MedicationItemResponse{ID: "1", Name: "Paracetamol", Status: "expired"},
		domain.MedicationItemResponse{ID: "2", Name: "Ibuprofen", Status: "fresh"},
	)
	calls := service.listCalls

	store.SetFilters(domain.MedicationFilters{Status: "expired"})
	store.SetTextFilter("para")
	store.SetStatusFilter("expired")
	store.SetSort(SortByName, SortDesc)
	text := "ibu"
	store.UpdateFilters(domain.MedicationFilterPatch{Text: &text})
	store.ClearFilters()

	if service.listCalls != calls {
		t.Errorf("filter mutators must not trigger fetches, got %d extra calls", service.listCalls-calls)
	}
}

func TestFilteredItemsReactsToActiveFilters(t *testing.T) {
	store, _ := loadedStore(t,
		domain.MedicationItemResponse{ID: "1", Name: "Paracetamol", Status: "expired"},
		domain.MedicationItemResponse{ID: "2", Name: "Ibuprofen", Status: "fresh"},
	)

	store.SetStatusFilter("expired")
	filtered := store.FilteredItems()
	if len(filtered) != 1 || filtered[0].ID != "1" {
		t.Errorf("expected only the expired item, got %v", filtered)
	}

	store.ClearFilters()
	if len(store.FilteredItems()) != 2 {
		t.Error("clearing filters must restore the full cached list")
	}

	if store.TotalItems() != 2 {
		t.Error("the client-side filter pass must not shrink the cache itself")
	}
}

func TestUpdateFiltersMergesPartially(t *testing.T) {
	store, _ := loadedStore(t)
	store.SetFilters(domain.MedicationFilters{Text: "para", Status: "expired"})

	status := "fresh"
	store.UpdateFilters(domain.MedicationFilterPatch{Status: &status})

	got := store.Filters()
	if got.Text != "para" || got.Status != "fresh" {
		t.Errorf("expected merged filters, got %+v", got)
	}
}
