package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chepyr/go-todo-list/internal/db"
	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const SessionCookieName = "session"

/*
SessionManager issues a signed token in a cookie and keeps the matching
session record server-side, so ending a session revokes the token even
though its signature is still valid.
*/
type SessionManager struct {
	sessions db.SessionRepositoryInterface
	secret   []byte
	ttl      time.Duration
	secure   bool
	now      func() time.Time
}

func NewSessionManager(sessions db.SessionRepositoryInterface, secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		secure:   secure,
		now:      time.Now,
	}
}

func (m *SessionManager) Start(ctx context.Context, w http.ResponseWriter, userID uuid.UUID) error {
	now := m.now()
	session := &models.Session{
		ID:        uuid.New(),
		UserID:    userID,
		ExpiresAt: now.Add(m.ttl).UTC(),
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		return err
	}

	token, err := m.signToken(session, now)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Current returns the identity bound to the request's session or
// models.ErrUnauthenticated. Other errors come from the session store.
func (m *SessionManager) Current(r *http.Request) (uuid.UUID, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return uuid.Nil, models.ErrUnauthenticated
	}
	userID, sessionID, err := m.parseToken(cookie.Value, true)
	if err != nil {
		return uuid.Nil, models.ErrUnauthenticated
	}

	session, err := m.sessions.GetByID(r.Context(), sessionID)
	if errors.Is(err, models.ErrNotFound) {
		return uuid.Nil, models.ErrUnauthenticated
	}
	if err != nil {
		return uuid.Nil, err
	}
	if session.UserID != userID {
		return uuid.Nil, models.ErrUnauthenticated
	}
	if session.Expired(m.now()) {
		if err := m.sessions.Delete(r.Context(), session.ID); err != nil {
			return uuid.Nil, err
		}
		return uuid.Nil, models.ErrUnauthenticated
	}
	return userID, nil
}

// End revokes the session record and clears the cookie. It is safe to call
// without a session.
func (m *SessionManager) End(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}
	_, sessionID, err := m.parseToken(cookie.Value, false)
	if err != nil {
		return nil
	}
	return m.sessions.Delete(r.Context(), sessionID)
}

func (m *SessionManager) signToken(session *models.Session, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": session.UserID.String(),
		"jti": session.ID.String(),
		"iat": now.Unix(),
		"exp": session.ExpiresAt.Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return signed, nil
}

// parseToken checks the signature and returns (user id, session id).
// With validate=false the time based claims are ignored, which lets End
// clean up records behind an expired token.
func (m *SessionManager) parseToken(tokenString string, validate bool) (uuid.UUID, uuid.UUID, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if validate {
		opts = append(opts, jwt.WithExpirationRequired(), jwt.WithTimeFunc(m.now))
	} else {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return uuid.Nil, uuid.Nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, uuid.Nil, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid sub claim: %w", err)
	}
	jti, _ := claims["jti"].(string)
	sessionID, err := uuid.Parse(jti)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid jti claim: %w", err)
	}
	return userID, sessionID, nil
}
