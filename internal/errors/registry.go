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
	// Lookup Errors (H001-H009)
	// ============================================

	"H001": {
		Category: CategoryNotFound,
		Message:  "Setter not found",
		Detail:   "Change was called with a setter name that is not registered on this store or module.",
	},
	"H002": {
		Category: CategoryNotFound,
		Message:  "Getter not found",
		Detail:   "Access was called with a getter name that is not registered on this store or module.",
	},
	"H003": {
		Category: CategoryNotFound,
		Message:  "Action not found",
		Detail:   "Send was called with an action name that is not registered on this store or module.",
	},
	"H004": {
		Category: CategoryNotFound,
		Message:  "Module not found",
		Detail:   "A segment of the dotted module path does not name a child module.",
	},

	// ============================================
	// Argument Errors (H010-H019)
	// ============================================

	"H010": {
		Category: CategoryInvalidArgument,
		Message:  "Invalid queue key",
		Detail:   "Dirty queue keys must be non-empty property names.",
	},
	"H011": {
		Category: CategoryInvalidArgument,
		Message:  "Invalid query",
		Detail:   "A query must be a list of key names or a map of alias to key name.",
	},
	"H012": {
		Category: CategoryInvalidArgument,
		Message:  "Invalid open arguments",
		Detail:   "Open calls take (query, component) or (modulePath, query, component).",
	},

	// ============================================
	// Host Hook Errors (H020-H029)
	// ============================================

	"H020": {
		Category: CategoryHostHook,
		Message:  "Component mount hook failed",
		Detail:   "The component's own ComponentDidMount returned an error or panicked. The listener was registered anyway.",
	},
	"H021": {
		Category: CategoryHostHook,
		Message:  "Component unmount hook failed",
		Detail:   "The component's own ComponentWillUnmount returned an error or panicked. The listener was removed anyway.",
	},

	// ============================================
	// Runtime Errors (H030-H039)
	// ============================================

	"H030": {
		Category: CategoryRuntime,
		Message:  "Handler panicked",
		Detail:   "A getter, setter or action panicked. The panic was recovered and turned into this error.",
	},
	"H031": {
		Category: CategoryRuntime,
		Message:  "Handler failed",
		Detail:   "A getter, setter or action returned an error without a code.",
	},

	// ============================================
	// Config Errors (H040-H049)
	// ============================================

	"H040": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No store definition file was found at the given path.",
	},
	"H041": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The store definition file could not be parsed.",
	},
	"H042": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A configuration value is out of range or malformed.",
	},

	// ============================================
	// Protocol Errors (H060-H069)
	// ============================================

	"H060": {
		Category: CategoryProtocol,
		Message:  "Malformed message",
		Detail:   "The message could not be decoded as JSON.",
	},
	"H061": {
		Category: CategoryProtocol,
		Message:  "Unknown message type",
		Detail:   "The message type is not one the bridge understands.",
	},
	"H062": {
		Category: CategoryProtocol,
		Message:  "Message too large",
		Detail:   "The message exceeds the configured size limit.",
	},
	"H063": {
		Category: CategoryProtocol,
		Message:  "Unknown subscription",
		Detail:   "The subscription id is not active on this connection.",
	},
}
