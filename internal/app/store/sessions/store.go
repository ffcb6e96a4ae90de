// internal/app/store/sessions/store.go
package sessions

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/nacl/secretbox"
)

// End reasons recorded when a session is revoked.
const (
	EndLogout       = "logout"
	EndUnauthorized = "unauthorized" // backend answered 401/403
	EndExpired      = "expired"
)

// ErrNotFound is returned when a session does not exist, was revoked, or expired.
var ErrNotFound = errors.New("session not found")

// ErrTokenSeal is returned when the stored backend token cannot be opened.
var ErrTokenSeal = errors.New("session token cannot be opened")

// Session is a console login. The cookie carries only ID; everything else,
// including the backend bearer token, stays server side.
type Session struct {
	ID        string `bson:"_id"`
	UserID    string `bson:"user_id"`
	Role      string `bson:"role"`
	AccountID string `bson:"account_id,omitempty"`
	Name      string `bson:"name"`
	Email     string `bson:"email"`

	// Token is the backend bearer token. Only TokenBox is persisted.
	Token    string `bson:"-"`
	TokenBox []byte `bson:"token_box"`

	CreatedAt  time.Time  `bson:"created_at"`
	LastSeenAt time.Time  `bson:"last_seen_at"`
	ExpiresAt  time.Time  `bson:"expires_at"`
	LogoutAt   *time.Time `bson:"logout_at,omitempty"`
	EndReason  string     `bson:"end_reason,omitempty"`

	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`
}

// Store manages console sessions.
type Store struct {
	c   *mongo.Collection
	key [32]byte
}

// New creates a sessions Store. The secret is hashed into the secretbox key
// that seals backend tokens at rest.
func New(db *mongo.Database, secret []byte) *Store {
	return &Store{
		c:   db.Collection("sessions"),
		key: sha256.Sum256(secret),
	}
}

// EnsureIndexes creates the TTL index that purges expired sessions.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_sessions_ttl").SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_sessions_user"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create persists a new session. ID is generated when empty and the token is
// sealed before it is written.
func (s *Store) Create(ctx context.Context, sess *Session) error {
	now := time.Now().UTC()
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.LastSeenAt = now

	box, err := s.seal(sess.Token)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}
	sess.TokenBox = box

	if _, err := s.c.InsertOne(ctx, sess); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Get returns a live session with its token opened. Revoked and expired
// sessions report ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	var sess Session
	err := s.c.FindOne(ctx, bson.M{"_id": id, "logout_at": nil}).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		return nil, ErrNotFound
	}
	tok, err := s.open(sess.TokenBox)
	if err != nil {
		return nil, err
	}
	sess.Token = tok
	return &sess, nil
}

// Revoke ends a session. Revoking an unknown or already revoked session is not an error.
func (s *Store) Revoke(ctx context.Context, id, reason string) error {
	if id == "" {
		return nil
	}
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "logout_at": nil},
		bson.M{"$set": bson.M{"logout_at": now, "end_reason": reason}},
	)
	return err
}

// CloseExpired ends every open session whose expiry has passed and reports
// how many were closed.
func (s *Store) CloseExpired(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateMany(ctx,
		bson.M{"logout_at": nil, "expires_at": bson.M{"$lte": now}},
		bson.M{"$set": bson.M{"logout_at": now, "end_reason": EndExpired}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountActive returns the number of sessions that are neither revoked nor expired.
func (s *Store) CountActive(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"logout_at":  nil,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	})
}

func (s *Store) seal(token string) ([]byte, error) {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], []byte(token), &nonce, &s.key), nil
}

func (s *Store) open(box []byte) (string, error) {
	if len(box) < 24 {
		return "", ErrTokenSeal
	}
	var nonce [24]byte
	copy(nonce[:], box[:24])
	out, ok := secretbox.Open(nil, box[24:], &nonce, &s.key)
	if !ok {
		return "", ErrTokenSeal
	}
	return string(out), nil
}
