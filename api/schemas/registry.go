package schemas

// NodeTypeOrigin records where a node-type template came from.
type NodeTypeOrigin string

const (
	OriginBuiltIn     NodeTypeOrigin = "built-in"
	OriginUserDefined NodeTypeOrigin = "user-defined"
	OriginAIGenerated NodeTypeOrigin = "ai-generated"
)

// Well-known built-in node-type IDs. Detector output and serialization
// summaries key off these.
const (
	TypeRateLimiter = "rate-limiter"
	TypeAuth        = "auth"
	TypeSanitizer   = "sanitizer"
	TypeValidator   = "validator"
	TypeEncryptor   = "encryptor"
)

// NodeTypeDefinition is a template for security nodes. Built-in definitions
// are process-wide constants; user-defined and AI-generated definitions live
// in the in-memory registry for the session and are not persisted.
type NodeTypeDefinition struct {
	ID           string         `json:"id"`
	Label        string         `json:"label"`
	Description  string         `json:"description"`
	Style        Style          `json:"style"`
	CodeTemplate string         `json:"code_template"`
	Origin       NodeTypeOrigin `json:"origin"`
}

// DefaultConfig returns the default configuration map for a registry type.
// Built-in types get their strongly-typed defaults; unknown (custom or
// AI-generated) types start empty since their fields are not known ahead of
// time.
func DefaultConfig(typeID string) map[string]any {
	switch typeID {
	case TypeRateLimiter:
		return RateLimitConfig{WindowMs: 60000, MaxRequests: 100}.Map()
	case TypeAuth:
		return JWTAuthConfig{Algorithm: "HS256", Expiration: "1h"}.Map()
	case TypeSanitizer:
		return SanitizerConfig{StripHTML: true, Normalize: true}.Map()
	case TypeValidator:
		return ValidatorConfig{Schema: "strict", RejectUnknown: true}.Map()
	case TypeEncryptor:
		return EncryptionConfig{Algorithm: "aes-256-gcm"}.Map()
	default:
		return map[string]any{}
	}
}

// RateLimitConfig is the typed parameter set for rate-limiter nodes.
type RateLimitConfig struct {
	WindowMs    int `json:"windowMs"`
	MaxRequests int `json:"maxRequests"`
}

func (c RateLimitConfig) Map() map[string]any {
	return map[string]any{"windowMs": c.WindowMs, "maxRequests": c.MaxRequests}
}

// JWTAuthConfig is the typed parameter set for auth nodes.
type JWTAuthConfig struct {
	Algorithm  string `json:"algorithm"`
	Expiration string `json:"expiration"`
}

func (c JWTAuthConfig) Map() map[string]any {
	return map[string]any{"algorithm": c.Algorithm, "expiration": c.Expiration}
}

// SanitizerConfig is the typed parameter set for sanitizer nodes.
type SanitizerConfig struct {
	StripHTML bool `json:"stripHtml"`
	Normalize bool `json:"normalize"`
}

func (c SanitizerConfig) Map() map[string]any {
	return map[string]any{"stripHtml": c.StripHTML, "normalize": c.Normalize}
}

// ValidatorConfig is the typed parameter set for schema-validator nodes.
type ValidatorConfig struct {
	Schema        string `json:"schema"`
	RejectUnknown bool   `json:"rejectUnknown"`
}

func (c ValidatorConfig) Map() map[string]any {
	return map[string]any{"schema": c.Schema, "rejectUnknown": c.RejectUnknown}
}

// EncryptionConfig is the typed parameter set for encryptor nodes.
type EncryptionConfig struct {
	Algorithm string `json:"algorithm"`
}

func (c EncryptionConfig) Map() map[string]any {
	return map[string]any{"algorithm": c.Algorithm}
}
