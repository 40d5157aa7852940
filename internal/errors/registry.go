package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Construction Errors (N001-N009)
	// ============================================

	"N001": {
		Category:   CategoryConstruction,
		Message:    "Required argument is nil",
		Suggestion: "Pass a non-nil handler, removal action and source.",
	},
	"N002": {
		Category:   CategoryConstruction,
		Message:    "Invalid property name",
		Suggestion: "Property names must not be blank.",
	},
	"N003": {
		Category:   CategoryConstruction,
		Message:    "Unknown property",
		Suggestion: "Declare an exported getter method or implement notify.Accessor.",
	},
	"N004": {
		Category:   CategoryConstruction,
		Message:    "Property is read-only",
		Suggestion: "Declare a SetX method or implement notify.Accessor.SetProperty.",
	},

	// ============================================
	// Path Errors (N010-N019)
	// ============================================

	"N010": {
		Category:   CategoryPath,
		Message:    "Path segment is not observable",
		Suggestion: "Embed notify.Notifier in the segment's type.",
	},
	"N011": {
		Category:   CategoryPath,
		Message:    "Malformed property path",
		Suggestion: `Use dotted identifiers such as "Customer.Address.Street".`,
	},
	"N012": {
		Category:   CategoryPath,
		Message:    "Path members do not chain",
		Suggestion: "Each member's receiver must be the type returned by the member before it.",
	},

	// ============================================
	// Binding Errors (N020-N029)
	// ============================================

	"N020": {
		Category:   CategoryBinding,
		Message:    "Bound properties have different types",
		Suggestion: "Bind properties whose getters return the same type.",
	},
	"N021": {
		Category:   CategoryBinding,
		Message:    "Incomplete binding profile",
		Suggestion: "Both profiles need a source and a property name.",
	},
	"N022": {
		Category:   CategoryBinding,
		Message:    "Unknown binding mode",
		Suggestion: "Use binding.TwoWay, binding.LeftToRight or binding.RightToLeft.",
	},

	// ============================================
	// Config Errors (N030-N039)
	// ============================================

	"N030": {
		Category:   CategoryConfig,
		Message:    "Failed to read config file",
		Suggestion: "Check that narvi.yaml exists and is readable.",
	},
	"N031": {
		Category:   CategoryConfig,
		Message:    "Invalid config file",
		Suggestion: "Check narvi.yaml for YAML syntax errors.",
	},
	"N032": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
	},

	// ============================================
	// CLI Errors (N040-N049)
	// ============================================

	"N040": {
		Category:   CategoryCLI,
		Message:    "Unknown model",
		Suggestion: "Run 'narvi deps --help' for the list of models.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
