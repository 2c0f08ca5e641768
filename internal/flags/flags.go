// Package flags implements layered feature flags: per-request header
// overrides take precedence over environment overrides, which take
// precedence over built-in defaults.
package flags

import (
	"os"
	"strings"
)

// Flag keys understood by the service. Unknown keys are carried through
// untyped so callers can introduce flags without touching this package.
const (
	// KeyTelemetryEnabled gates audit-adjacent telemetry logging.
	KeyTelemetryEnabled = "telemetry.enabled"

	// KeyExtractorProvider selects the extraction provider by name.
	KeyExtractorProvider = "extractor.provider"

	// KeyNotesAllowDelete gates the note deletion endpoint.
	KeyNotesAllowDelete = "notes.allowDelete"

	// KeyDevContextPanel exposes the dev context panel outside
	// production.
	KeyDevContextPanel = "ui.devContextPanel"
)

// envNames maps flag keys to their environment override variables.
var envNames = map[string]string{
	KeyTelemetryEnabled:  "FEATURE_TELEMETRY_ENABLED",
	KeyExtractorProvider: "FEATURE_EXTRACTOR_PROVIDER",
	KeyNotesAllowDelete:  "FEATURE_NOTES_ALLOW_DELETE",
	KeyDevContextPanel:   "FEATURE_UI_DEV_CONTEXT_PANEL",
}

// Flags is a resolved flag set. Values are strings or bools; the
// literal strings "true" and "false" are coerced to bools at parse
// time.
type Flags map[string]any

// Defaults returns the built-in flag values. production controls the
// dev context panel default.
func Defaults(production bool) Flags {
	return Flags{
		KeyTelemetryEnabled:  true,
		KeyExtractorProvider: "rules",
		KeyNotesAllowDelete:  false,
		KeyDevContextPanel:   !production,
	}
}

// FromEnv overlays environment overrides onto the defaults.
func FromEnv(production bool) Flags {
	resolved := Defaults(production)
	for key, envName := range envNames {
		if raw, ok := os.LookupEnv(envName); ok && raw != "" {
			resolved[key] = coerce(raw)
		}
	}
	return resolved
}

// ParseHeader parses a comma-separated "key=value" header value, e.g.
// "notes.allowDelete=true,extractor.provider=rules". Malformed pairs
// are skipped.
func ParseHeader(header string) Flags {
	overrides := Flags{}
	for _, pair := range strings.Split(header, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			continue
		}
		overrides[key] = coerce(strings.TrimSpace(value))
	}
	return overrides
}

// Resolve layers header overrides over the base flag set without
// mutating either input.
func Resolve(base, overrides Flags) Flags {
	resolved := make(Flags, len(base)+len(overrides))
	for key, value := range base {
		resolved[key] = value
	}
	for key, value := range overrides {
		resolved[key] = value
	}
	return resolved
}

// Bool reads a flag as a boolean, falling back to the given default
// when the flag is absent or not boolean-typed.
func (f Flags) Bool(key string, fallback bool) bool {
	if value, ok := f[key].(bool); ok {
		return value
	}
	return fallback
}

// String reads a flag as a string, falling back to the given default
// when the flag is absent or not string-typed.
func (f Flags) String(key, fallback string) string {
	if value, ok := f[key].(string); ok {
		return value
	}
	return fallback
}

func coerce(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	default:
		return raw
	}
}
