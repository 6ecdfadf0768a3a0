package validators

import "context"

// Validator checks domain models before they reach the storage layer.
// Optional field names restrict validation to a subset of fields; when
// omitted, a default set for the given model is validated.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
