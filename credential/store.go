package credential

import (
	"context"
	"errors"
)

// ErrNotFound is returned by [Store.Load] when no credential record exists.
var ErrNotFound = errors.New("credential record not found")

// Record is the durable credential pair. Both fields are present for a
// logged-in session and both absent otherwise; a partial record is treated
// as absent by every reader.
type Record struct {
	Token     string `json:"token"`
	Principal string `json:"principal"`
}

// Present reports whether the record represents a stored credential.
// A record missing either field does not count.
func (r Record) Present() bool {
	return r.Token != "" && r.Principal != ""
}

// Store persists a single credential record.
//
// Load returns [ErrNotFound] when nothing is stored. Delete is idempotent:
// deleting an absent record is not an error.
type Store interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Delete(ctx context.Context) error
}
