// Package record defines the canonical memory record model shared by every
// tier of the engine.
//
// Records are immutable values: every lifecycle operation (RecordAccess,
// RecordUpdate, Consolidate, Deprecate, ...) returns a new Record which the
// owning store commits atomically. Content identity for duplicate detection
// is the SHA-256 hash of the content, recomputed on every content change.
package record

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Tier identifies which lifecycle tier owns a record.
type Tier string

const (
	TierUser    Tier = "user"
	TierSession Tier = "session"
	TierAgent   Tier = "agent"
)

// Scope binds a record to exactly one owner in one tier.
type Scope struct {
	Tier  Tier   `json:"tier"`
	Owner string `json:"owner"`
}

// UserScope returns a user-tier scope for the given user id.
func UserScope(userID string) Scope { return Scope{Tier: TierUser, Owner: userID} }

// SessionScope returns a session-tier scope for the given session id.
func SessionScope(sessionID string) Scope { return Scope{Tier: TierSession, Owner: sessionID} }

// AgentScope returns an agent-tier scope for the given agent id.
func AgentScope(agentID string) Scope { return Scope{Tier: TierAgent, Owner: agentID} }

// Record is the unit of storage for all memory tiers.
type Record struct {
	ID          string         `json:"id"`
	Content     string         `json:"content"`
	ContentHash string         `json:"content_hash"`
	Scope       Scope          `json:"scope"`
	Kind        Kind           `json:"kind"`
	Importance  Importance     `json:"importance"`
	Tags        []string       `json:"tags,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`

	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`

	AccessCount int `json:"access_count"`
	UpdateCount int `json:"update_count"`

	Consolidated bool       `json:"consolidated"`
	Deprecated   bool       `json:"deprecated"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`

	// RelatedIDs maps related record ids to similarity scores in [-1, 1].
	// Symmetry is by convention only; removing a record never requires
	// visiting back-references.
	RelatedIDs map[string]float64 `json:"related_ids,omitempty"`
}

// Option configures a Record at creation time.
type Option func(*Record)

// WithKind sets the record kind.
func WithKind(k Kind) Option {
	return func(r *Record) { r.Kind = k }
}

// WithImportance sets the record importance.
func WithImportance(i Importance) Option {
	return func(r *Record) { r.Importance = i }
}

// WithTags sets the record tags.
func WithTags(tags ...string) Option {
	return func(r *Record) { r.Tags = tags }
}

// WithExpiry sets an expiry timestamp (TTL).
func WithExpiry(t time.Time) Option {
	return func(r *Record) { r.ExpiresAt = &t }
}

// WithMetadataValue sets a single metadata key at creation.
func WithMetadataValue(key string, value any) Option {
	return func(r *Record) {
		if r.Metadata == nil {
			r.Metadata = make(map[string]any)
		}
		r.Metadata[key] = value
	}
}

// New creates a record. Content must be non-empty and the scope must name an
// owner; violations return a ValidationError.
func New(content string, scope Scope, opts ...Option) (Record, error) {
	if content == "" {
		return Record{}, ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if scope.Owner == "" || scope.Tier == "" {
		return Record{}, ValidationError{Field: "scope", Reason: "owner and tier are required"}
	}

	now := time.Now()
	r := Record{
		ID:             uuid.NewString(),
		Content:        content,
		ContentHash:    HashContent(content),
		Scope:          scope,
		Kind:           KindSemantic,
		Importance:     ImportanceMedium,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastAccessedAt: now,
		AccessCount:    1,
	}

	for _, opt := range opts {
		opt(&r)
	}

	return r, nil
}

// HashContent computes the hex-encoded SHA-256 hash used for exact-duplicate
// detection.
func HashContent(content string) string {
	h := sha256.Sum256([]byte(content))
	return hex.EncodeToString(h[:])
}

// RecordAccess returns a copy with the access counter bumped and the
// last-accessed timestamp refreshed.
func (r Record) RecordAccess() Record {
	out := r.clone()
	out.AccessCount++
	out.LastAccessedAt = time.Now()
	return out
}

// RecordUpdate returns a copy carrying the new content. The content hash is
// recomputed and any prior consolidation is voided.
func (r Record) RecordUpdate(content string) (Record, error) {
	if content == "" {
		return Record{}, ValidationError{Field: "content", Reason: "must not be empty"}
	}

	out := r.clone()
	out.Content = content
	out.ContentHash = HashContent(content)
	out.UpdateCount++
	out.UpdatedAt = time.Now()
	out.Consolidated = false
	return out, nil
}

// Consolidate marks the record consolidated and raises importance by at most
// one step, never past critical and never downward.
func (r Record) Consolidate() Record {
	out := r.clone()
	out.Consolidated = true
	if !out.Deprecated && out.Importance < ImportanceCritical {
		out.Importance++
	}
	out.UpdatedAt = time.Now()
	return out
}

// Deprecate marks the record deprecated and pins importance at minimal.
// Irreversible: later consolidation cannot raise a deprecated record.
func (r Record) Deprecate() Record {
	out := r.clone()
	out.Deprecated = true
	out.Importance = ImportanceMinimal
	out.UpdatedAt = time.Now()
	return out
}

// WithMetadata returns a copy with the metadata key set. The original's
// metadata map is never mutated in place.
func (r Record) WithMetadata(key string, value any) Record {
	out := r.clone()
	if out.Metadata == nil {
		out.Metadata = make(map[string]any)
	}
	out.Metadata[key] = value
	return out
}

// Relate returns a copy with a similarity-scored reference to another record.
func (r Record) Relate(id string, score float64) Record {
	out := r.clone()
	if out.RelatedIDs == nil {
		out.RelatedIDs = make(map[string]float64)
	}
	out.RelatedIDs[id] = score
	return out
}

// Expired reports whether the record's TTL has passed. Records without an
// expiry never expire.
func (r Record) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// Title returns the human-readable title from metadata, falling back to a
// content prefix so derived surfaces always have something to show.
func (r Record) Title() string {
	if t, ok := r.Metadata["title"].(string); ok && t != "" {
		return t
	}
	if len(r.Content) > 40 {
		return r.Content[:40]
	}
	return r.Content
}

// clone copies the record including its maps and slices so callers can treat
// returned values as independent.
func (r Record) clone() Record {
	out := r

	if r.Tags != nil {
		out.Tags = make([]string, len(r.Tags))
		copy(out.Tags, r.Tags)
	}

	if r.Metadata != nil {
		out.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}

	if r.RelatedIDs != nil {
		out.RelatedIDs = make(map[string]float64, len(r.RelatedIDs))
		for k, v := range r.RelatedIDs {
			out.RelatedIDs[k] = v
		}
	}

	if r.ExpiresAt != nil {
		t := *r.ExpiresAt
		out.ExpiresAt = &t
	}

	return out
}
