package redis

import (
	"context"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

const (
	sessionPrefix = "taskboard:session:"

	fieldUserID    = "user_id"
	fieldCreatedAt = "created_at"
	fieldExpiresAt = "expires_at"
)

// SessionRepository keeps each session in a hash whose key expires with
// the session.
type SessionRepository struct {
	client redislib.Cmdable
	ttl    time.Duration
	now    func() time.Time
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(client redislib.Cmdable, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{client: client, ttl: ttl, now: time.Now}
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	values, err := r.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	session := &domain.Session{ID: id, UserID: values[fieldUserID]}
	if session.CreatedAt, err = time.Parse(time.RFC3339Nano, values[fieldCreatedAt]); err != nil {
		return nil, err
	}
	if session.ExpiresAt, err = time.Parse(time.RFC3339Nano, values[fieldExpiresAt]); err != nil {
		return nil, err
	}
	if session.IsExpired(r.now()) {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" || session.UserID == "" {
		return domain.ErrInvalidPayload
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = r.now()
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		session.ExpiresAt = session.CreatedAt.Add(r.ttl)
	}
	if !session.ExpiresAt.After(r.now()) {
		return domain.ErrSessionNotFound
	}

	key := sessionKey(session.ID)
	_, err := r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldUserID, session.UserID,
			fieldCreatedAt, session.CreatedAt.UTC().Format(time.RFC3339Nano),
			fieldExpiresAt, session.ExpiresAt.UTC().Format(time.RFC3339Nano),
		)
		pipe.ExpireAt(ctx, key, session.ExpiresAt)
		return nil
	})
	return err
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}

// Extend moves the expiry of a live session to now plus ttlSeconds, or the
// default TTL when ttlSeconds is not positive.
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
	return r.Save(ctx, session)
}

func sessionKey(id string) string { return sessionPrefix + id }
