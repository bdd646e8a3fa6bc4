package core

import (
	"context"
	"encoding/json"
)

// Backend is the REST backend owning students, subjects and scores.
// Every failure is reported as an *APIError; implementations never touch the view state.
type Backend interface {
	List(ctx context.Context, kind Kind) (json.RawMessage, error)
	Create(ctx context.Context, kind Kind, payload interface{}) (json.RawMessage, error)
	Update(ctx context.Context, kind Kind, id int, payload interface{}) (json.RawMessage, error)
	Delete(ctx context.Context, kind Kind, id int) (json.RawMessage, error)
}
