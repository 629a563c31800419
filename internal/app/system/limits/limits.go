// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBody is the largest JSON request body any endpoint accepts.
	// The biggest legitimate body is a profile with a 500-character bio.
	MaxJSONBody = 64 << 10 // 64 KB
)
