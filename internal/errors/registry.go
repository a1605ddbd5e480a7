package errors

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Configuration (E100-E199)

	"E100": {
		Category:   CategoryConfig,
		Message:    "Configuration file could not be read",
		Suggestion: "Check the path passed with --config.",
	},
	"E101": {
		Category:   CategoryConfig,
		Message:    "Configuration file is malformed",
		Suggestion: "designdocs.json must be valid JSON; designdocs.yaml must be valid YAML.",
	},
	"E102": {
		Category:   CategoryConfig,
		Message:    "Invalid server port",
		Suggestion: "Use a port between 1 and 65535.",
	},
	"E103": {
		Category:   CategoryConfig,
		Message:    "Invalid duration",
		Suggestion: `Durations use Go syntax, e.g. "500ms" or "2m".`,
	},
	"E104": {
		Category:   CategoryConfig,
		Message:    "Invalid reveal defaults",
		Suggestion: "variant must be fade-up, fade-left, fade-right, scale or fade; duration must be positive.",
	},
	"E105": {
		Category:   CategoryConfig,
		Message:    "Invalid log settings",
		Suggestion: `log.level is debug, info, warn or error; log.format is "text" or "json".`,
	},
	"E106": {
		Category:   CategoryConfig,
		Message:    "Unsupported configuration file extension",
		Suggestion: "Use .json, .yaml or .yml.",
	},

	// Protocol and sessions (E200-E299)

	"E200": {
		Category: CategoryProtocol,
		Message:  "Malformed frame",
	},
	"E201": {
		Category: CategoryProtocol,
		Message:  "Unknown frame type",
	},
	"E202": {
		Category: CategoryProtocol,
		Message:  "Frame too large",
	},
	"E203": {
		Category: CategoryProtocol,
		Message:  "Unknown tab",
	},
	"E210": {
		Category:   CategoryProtocol,
		Message:    "Session not found",
		Suggestion: "The session expired or the server restarted. Reload the page.",
	},
	"E211": {
		Category: CategoryProtocol,
		Message:  "Session already attached",
	},
	"E212": {
		Category: CategoryProtocol,
		Message:  "Session is closed",
	},
	"E213": {
		Category:   CategoryProtocol,
		Message:    "Session limit reached",
		Suggestion: "Raise session.maxSessions or lower session.idleTimeout.",
	},

	// Publishing (E300-E399)

	"E300": {
		Category: CategoryPublish,
		Message:  "Static export failed",
	},
	"E301": {
		Category:   CategoryPublish,
		Message:    "S3 upload failed",
		Suggestion: "Check the bucket name, region and AWS credentials.",
	},
	"E302": {
		Category:   CategoryPublish,
		Message:    "No bucket configured",
		Suggestion: "Set publish.bucket in the config file or pass --bucket.",
	},

	// Validation (E400-E499)

	"E400": {
		Category:   CategoryValidation,
		Message:    "Unknown token category",
		Suggestion: "Run designdocs token categories to list the presets.",
	},
	"E401": {
		Category: CategoryValidation,
		Message:  "Token name part is required",
	},
	"E402": {
		Category:   CategoryValidation,
		Message:    "Invalid token name part",
		Suggestion: "Parts may contain letters, digits, spaces, dashes and underscores.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
