package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Element structure errors (L001-L019)
	// ============================================

	"L001": {
		Category: CategoryStructure,
		Message:  "Duplicate child",
		Detail:   "The element is already a direct child of this parent. Remove it first or use MoveTo to reorder.",
	},
	"L002": {
		Category: CategoryStructure,
		Message:  "Not a child",
		Detail:   "The element is not a direct child of this parent.",
	},
	"L003": {
		Category: CategoryStructure,
		Message:  "Move to same index",
		Detail:   "The child already sits at the requested index. Callers must not issue degenerate moves.",
	},
	"L004": {
		Category: CategoryState,
		Message:  "Element not created",
		Detail:   "The rendered node does not exist until the element has been flushed once.",
	},
	"L005": {
		Category: CategoryStructure,
		Message:  "Index out of range",
		Detail:   "The index is outside the child list.",
	},
	"L006": {
		Category: CategoryStructure,
		Message:  "Related child not found",
		Detail:   "The reference element passed to a relative insert or move is not a child of this parent.",
	},
	"L007": {
		Category: CategoryStructure,
		Message:  "Foreign element",
		Detail:   "The element belongs to a different reconciler.",
	},
	"L008": {
		Category: CategoryStructure,
		Message:  "Cycle",
		Detail:   "An element cannot become a child of itself or of one of its descendants.",
	},

	// ============================================
	// Scenario errors (L020-L039)
	// ============================================

	"L020": {
		Category: CategoryScenario,
		Message:  "Invalid scenario",
		Detail:   "The scenario file could not be parsed.",
	},
	"L021": {
		Category: CategoryScenario,
		Message:  "Unknown element",
		Detail:   "The step refers to an element name that was never declared.",
	},
	"L022": {
		Category: CategoryScenario,
		Message:  "Unknown action",
		Detail:   "The step uses an action the scenario runner does not support.",
	},
	"L023": {
		Category: CategoryScenario,
		Message:  "Step failed",
		Detail:   "A scenario step was rejected by the element API.",
	},

	// ============================================
	// Config errors (L040-L059)
	// ============================================

	"L040": {
		Category: CategoryConfig,
		Message:  "Invalid config",
		Detail:   "lazydom.json could not be read or parsed.",
	},
	"L041": {
		Category: CategoryConfig,
		Message:  "Config not found",
		Detail:   "No lazydom.json was found.",
	},
	"L042": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A configuration value is out of range.",
	},

	// ============================================
	// Storage errors (L060-L079)
	// ============================================

	"L060": {
		Category: CategoryStorage,
		Message:  "Snapshot store failed",
		Detail:   "The snapshot could not be written.",
	},
	"L061": {
		Category: CategoryStorage,
		Message:  "Snapshot not found",
		Detail:   "No snapshot exists under that key.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
