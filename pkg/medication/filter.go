package medication

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"MedTrack-Backend/domain"
)

// Sortable view fields. Anything else is silently ignored.
const (
	SortByName            = "name"
	SortByActiveSubstance = "active_substance"
	SortByBrand           = "brand"
	SortByManufacturer    = "manufacturer"
	SortByExpiryDate      = "expiry_date"
	SortByCurrentQuantity = "current_quantity"
	SortByCreatedAt       = "created_at"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ApplyFilters runs the in-memory refinement pass over a list of views
// whose status has already been derived: free-text search, status/kind/
// is-generic filtering and a stable sort. The remote gateway cannot
// evaluate any of these on derived fields, so this always runs after its
// page has been fetched. Unknown filter values are ignored, never rejected.
func ApplyFilters(items []domain.MedicationItemResponse, filters domain.MedicationFilters) []domain.MedicationItemResponse {
	result := make([]domain.MedicationItemResponse, 0, len(items))
	result = append(result, items...)

	if text := strings.TrimSpace(filters.Text); text != "" {
		result = filterByText(result, text)
	}

	if IsValidStatus(filters.Status) {
		result = filterByStatus(result, filters.Status)
	}

	if domain.IsValidKind(filters.Kind) {
		filtered := result[:0]
		for _, item := range result {
			if item.Kind == filters.Kind {
				filtered = append(filtered, item)
			}
		}
		result = filtered
	}

	if filters.IsGeneric != nil {
		filtered := result[:0]
		for _, item := range result {
			if item.IsGeneric == *filters.IsGeneric {
				filtered = append(filtered, item)
			}
		}
		result = filtered
	}

	if filters.SortField != "" {
		SortItems(result, filters.SortField, filters.SortDirection)
	}

	return result
}

// filterByText keeps items whose name, active substance, brand,
// manufacturer or notes contain the needle, case-insensitively. A match in
// any one field is sufficient.
func filterByText(items []domain.MedicationItemResponse, text string) []domain.MedicationItemResponse {
	needle := strings.ToLower(text)
	filtered := items[:0]
	for _, item := range items {
		if containsFold(item.Name, needle) ||
			containsFold(item.ActiveSubstance, needle) ||
			containsFold(item.Brand, needle) ||
			containsFold(item.Manufacturer, needle) ||
			containsFold(item.Notes, needle) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}

func filterByStatus(items []domain.MedicationItemResponse, status string) []domain.MedicationItemResponse {
	filtered := items[:0]
	for _, item := range items {
		if item.Status == status {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// SortItems sorts in place with a stable comparator, so equal keys keep
// their relative input order and repeated calls on unchanged data are
// deterministic. Unknown fields leave the order untouched.
func SortItems(items []domain.MedicationItemResponse, field, direction string) {
	less := comparatorFor(field)
	if less == nil {
		return
	}

	dir := 1
	if direction == SortDesc {
		dir = -1
	}

	sort.SliceStable(items, func(i, j int) bool {
		return less(&items[i], &items[j])*dir < 0
	})
}

func comparatorFor(field string) func(a, b *domain.MedicationItemResponse) int {
	switch field {
	case SortByName:
		return stringComparator(func(m *domain.MedicationItemResponse) string { return m.Name })
	case SortByActiveSubstance:
		return stringComparator(func(m *domain.MedicationItemResponse) string { return m.ActiveSubstance })
	case SortByBrand:
		return stringComparator(func(m *domain.MedicationItemResponse) string { return m.Brand })
	case SortByManufacturer:
		return stringComparator(func(m *domain.MedicationItemResponse) string { return m.Manufacturer })
	case SortByExpiryDate:
		// Dates are rendered as YYYY-MM-DD, which compares chronologically.
		return func(a, b *domain.MedicationItemResponse) int {
			return strings.Compare(a.ExpiryDate, b.ExpiryDate)
		}
	case SortByCurrentQuantity:
		return func(a, b *domain.MedicationItemResponse) int {
			return a.CurrentQuantity - b.CurrentQuantity
		}
	case SortByCreatedAt:
		return func(a, b *domain.MedicationItemResponse) int {
			switch {
			case a.CreatedAt.Before(b.CreatedAt):
				return -1
			case a.CreatedAt.After(b.CreatedAt):
				return 1
			}
			return 0
		}
	}
	return nil
}

// stringComparator builds a locale-aware, case-insensitive comparator. The
// collator keeps internal buffers, so one is created per sort rather than
// shared across requests.
func stringComparator(key func(m *domain.MedicationItemResponse) string) func(a, b *domain.MedicationItemResponse) int {
	c := collate.New(language.Und, collate.IgnoreCase)
	return func(a, b *domain.MedicationItemResponse) int {
		return c.CompareString(key(a), key(b))
	}
}
