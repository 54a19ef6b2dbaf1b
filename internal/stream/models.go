package stream

// Model catalog of the generation service. The service validates requested
// models against the same list and silently substitutes its default for
// unknown names, so client-side selection is a convenience, not a gate.

// AllModels lists every model the generation service supports.
var AllModels = []string{
	"gpt-4o-mini-2024-07-18",
	"gpt-4.1-mini-2025-04-14",
	"gpt-3.5-turbo-0125",
	"o4-mini-2025-04-16",
	"o3-2025-04-16",
	"gpt-4.1-2025-04-14",
	"gpt-4o-2024-08-06",
}

// ModelPriority orders models most powerful first, for default selection.
var ModelPriority = []string{
	"gpt-4.1-2025-04-14",
	"o3-2025-04-16",
	"gpt-4o-2024-08-06",
	"o4-mini-2025-04-16",
	"gpt-4.1-mini-2025-04-14",
	"gpt-4o-mini-2024-07-18",
	"gpt-3.5-turbo-0125",
}

// AvailableModels applies a configured filter to the catalog. Unknown names
// in the filter are dropped; an empty or fully-invalid filter falls back to
// the full catalog.
func AvailableModels(filter []string) []string {
	if len(filter) == 0 {
		return AllModels
	}

	known := make(map[string]bool, len(AllModels))
	for _, m := range AllModels {
		known[m] = true
	}

	var available []string
	for _, m := range filter {
		if known[m] {
			available = append(available, m)
		}
	}
	if len(available) == 0 {
		return AllModels
	}
	return available
}

// DefaultModel returns the most powerful available model.
func DefaultModel(filter []string) string {
	available := AvailableModels(filter)
	set := make(map[string]bool, len(available))
	for _, m := range available {
		set[m] = true
	}
	for _, m := range ModelPriority {
		if set[m] {
			return m
		}
	}
	return available[0]
}

// BestAvailableModel returns preferred if it is available, otherwise the
// default.
func BestAvailableModel(preferred string, filter []string) string {
	for _, m := range AvailableModels(filter) {
		if m == preferred {
			return preferred
		}
	}
	return DefaultModel(filter)
}

// ValidModel reports whether a model is in the available set.
func ValidModel(model string, filter []string) bool {
	for _, m := range AvailableModels(filter) {
		if m == model {
			return true
		}
	}
	return false
}
