package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/mod/semver"
)

// SchemaVersion is written into every document envelope. Documents whose
// major version differs are ignored on load.
const SchemaVersion = "v1.0.0"

// Documents loads and saves JSON documents for one feature at a time.
type Documents interface {
	// Load decodes the feature's document into v. ok is false when the
	// caller should fall back to its defaults.
	Load(ctx context.Context, feature string, v any) (ok bool, err error)
	Save(ctx context.Context, feature string, v any) error
	Remove(ctx context.Context, feature string) error
}

type envelope struct {
	Schema string          `json:"schema"`
	Data   json.RawMessage `json:"data"`
}

// Scope binds a KV to a single user identity.
type Scope struct {
	kv     KV
	userID string
	logger *slog.Logger
}

var _ Documents = (*Scope)(nil)

// NewScope creates a user-scoped document store. A nil logger discards.
func NewScope(kv KV, userID string, logger *slog.Logger) *Scope {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scope{kv: kv, userID: userID, logger: logger}
}

// UserID returns the identity this scope is bound to.
func (s *Scope) UserID() string {
	return s.userID
}

func (s *Scope) Load(ctx context.Context, feature string, v any) (bool, error) {
	key := Key(feature, s.userID)
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, &PersistError{Op: "load", Key: key, Err: err}
	}
	if !ok {
		return false, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.logger.Warn("ignoring unreadable document", "key", key, "err", err)
		return false, nil
	}
	if !semver.IsValid(env.Schema) || semver.Major(env.Schema) != semver.Major(SchemaVersion) {
		s.logger.Warn("ignoring document with incompatible schema",
			"key", key, "schema", env.Schema, "want", SchemaVersion)
		return false, nil
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		s.logger.Warn("ignoring undecodable document", "key", key, "err", err)
		return false, nil
	}
	return true, nil
}

func (s *Scope) Save(ctx context.Context, feature string, v any) error {
	key := Key(feature, s.userID)
	data, err := json.Marshal(v)
	if err != nil {
		return &PersistError{Op: "save", Key: key, Err: fmt.Errorf("marshal: %w", err)}
	}
	raw, err := json.Marshal(envelope{Schema: SchemaVersion, Data: data})
	if err != nil {
		return &PersistError{Op: "save", Key: key, Err: fmt.Errorf("marshal envelope: %w", err)}
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return &PersistError{Op: "save", Key: key, Err: err}
	}
	return nil
}

func (s *Scope) Remove(ctx context.Context, feature string) error {
	key := Key(feature, s.userID)
	if err := s.kv.Remove(ctx, key); err != nil {
		return &PersistError{Op: "remove", Key: key, Err: err}
	}
	return nil
}
