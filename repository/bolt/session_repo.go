package bolt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/infrastructure/boltdb"
	"github.com/fastygo/taskboard/repository"
)

// SessionBucket holds one JSON document per session id.
const SessionBucket = "sessions"

// SessionRepository stores sessions in BoltDB for deployments without Redis.
// Expired entries are hidden on read and removed by PurgeExpired.
type SessionRepository struct {
	store *boltdb.Store
	ttl   time.Duration
	now   func() time.Time
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(store *boltdb.Store, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{store: store, ttl: ttl, now: time.Now}
}

func (r *SessionRepository) Get(_ context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	found, err := r.store.Get(SessionBucket, id, &session)
	if err != nil {
		return nil, err
	}
	if !found || session.IsExpired(r.now()) {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *SessionRepository) Save(_ context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = r.now()
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		session.ExpiresAt = session.CreatedAt.Add(r.ttl)
	}
	return r.store.Put(SessionBucket, session.ID, session)
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	return r.store.Delete(SessionBucket, id)
}

func (r *SessionRepository) Extend(ctx context.Context, id string, ttlSeconds int) error {
	session, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	duration := time.Duration(ttlSeconds) * time.Second
	if duration <= 0 {
		duration = r.ttl
	}
	session.ExpiresAt = r.now().Add(duration)
	return r.store.Put(SessionBucket, session.ID, session)
}

// PurgeExpired deletes every session whose expiry has passed.
func (r *SessionRepository) PurgeExpired(_ context.Context) (int, error) {
	now := r.now()
	return r.store.Sweep(SessionBucket, func(value []byte) bool {
		var session domain.Session
		if err := json.Unmarshal(value, &session); err != nil {
			return true
		}
		return session.IsExpired(now)
	})
}
