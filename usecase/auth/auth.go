package auth

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

// MinPasswordLength matches the backend policy surfaced to sign-up forms.
const MinPasswordLength = 6

type Options struct {
	SessionTTL time.Duration
	BcryptCost int
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tokens   *Tokenizer
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
}

func New(users repository.UserRepository, sessions repository.SessionRepository, tokens *Tokenizer, opts Options, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// SignUp registers a user. It does not sign the user in.
func (uc *UseCase) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.Invalid("unable to validate email address: invalid format")
	}
	if len(password) < MinPasswordLength {
		return nil, domain.Invalid("password should be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.opts.BcryptCost)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "hash password", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Status:       domain.UserStatusActive,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// SignIn checks the password and issues a new session with its token.
func (uc *UseCase) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	user, err := uc.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		uc.logger.Info("sign-in rejected", zap.String("user_id", user.ID))
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, domain.NewError(domain.ErrCodeForbidden, "user is not active")
	}

	now := uc.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.opts.SessionTTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return uc.issue(session, user)
}

// Authenticate resolves an access token to a live session. Revoked or
// expired sessions are rejected even when the token itself still verifies.
func (uc *UseCase) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := uc.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	session, err := uc.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if session.UserID != claims.UserID || session.IsExpired(uc.now()) {
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

// GetSession returns the session together with its user.
func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, *domain.User, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.IsExpired(uc.now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, nil, domain.ErrSessionNotFound
	}
	user, err := uc.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// RefreshSession extends the session and returns a token with the new
// expiry. The TTL is capped at the configured session TTL.
func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*domain.AuthSession, error) {
	if ttl <= 0 || ttl > uc.opts.SessionTTL {
		ttl = uc.opts.SessionTTL
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, err
	}
	session, user, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return uc.issue(session, user)
}

// SignOut revokes the session.
func (uc *UseCase) SignOut(ctx context.Context, sessionID string) error {
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	uc.logger.Info("session revoked", zap.String("session_id", sessionID))
	return nil
}

func (uc *UseCase) issue(session *domain.Session, user *domain.User) (*domain.AuthSession, error) {
	token, err := uc.tokens.Generate(session)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "sign access token", err)
	}
	return &domain.AuthSession{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   session.ExpiresAt,
		Session:     session,
		User:        user,
	}, nil
}
