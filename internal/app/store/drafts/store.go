// internal/app/store/drafts/store.go
package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no live draft exists for the session and name.
var ErrNotFound = errors.New("draft not found")

// Draft is the saved state of a multi-step form, one per session and form name.
type Draft struct {
	SessionID string            `bson:"session_id"`
	Name      string            `bson:"name"`
	Step      string            `bson:"step"`
	Branch    string            `bson:"branch,omitempty"`
	Values    map[string]string `bson:"values,omitempty"`
	UpdatedAt time.Time         `bson:"updated_at"`
	ExpiresAt time.Time         `bson:"expires_at"`
}

// Store persists drafts in the wizard_drafts collection.
type Store struct {
	c   *mongo.Collection
	ttl time.Duration
}

// New creates a drafts Store. Drafts expire ttl after their last save.
func New(db *mongo.Database, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Store{c: db.Collection("wizard_drafts"), ttl: ttl}
}

// EnsureIndexes creates the unique (session_id, name) index and the TTL index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("uniq_drafts_session_name").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_drafts_ttl").SetExpireAfterSeconds(0),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Save upserts the draft and pushes its expiry forward.
func (s *Store) Save(ctx context.Context, d Draft) error {
	now := time.Now().UTC()
	d.UpdatedAt = now
	d.ExpiresAt = now.Add(s.ttl)

	filter := bson.M{"session_id": d.SessionID, "name": d.Name}
	_, err := s.c.ReplaceOne(ctx, filter, d, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save draft %s: %w", d.Name, err)
	}
	return nil
}

// Load returns the live draft for the session and name.
func (s *Store) Load(ctx context.Context, sessionID, name string) (Draft, error) {
	var d Draft
	filter := bson.M{
		"session_id": sessionID,
		"name":       name,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}
	err := s.c.FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, err
	}
	return d, nil
}

// Delete removes the draft. Deleting a missing draft is not an error.
func (s *Store) Delete(ctx context.Context, sessionID, name string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"session_id": sessionID, "name": name})
	return err
}
