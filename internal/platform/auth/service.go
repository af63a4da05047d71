package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"ITAM-backend/internal/platform/apperr"
)

var ErrAuthFailed = apperr.Unauthenticated("incorrect email or password")

// Account is the login view of a user.
type Account struct {
	ID           string
	Email        string
	Name         string
	Role         string
	PasswordHash string
	IsActive     bool
}

// AccountStore resolves accounts. (nil, nil) means no such account.
type AccountStore interface {
	AccountByEmail(ctx context.Context, email string) (*Account, error)
	AccountByID(ctx context.Context, id string) (*Account, error)
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	store  AccountStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(store AccountStore, secret []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{store: store, secret: secret, ttl: ttl, now: time.Now}
}

// Authenticate is RequireAuth bound to this service's secret and accounts.
func (s *Service) Authenticate() gin.HandlerFunc { return RequireAuth(s.secret, s.store) }

func (s *Service) Login(ctx context.Context, email, password string) (string, *Account, error) {
	acct, err := s.store.AccountByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", nil, err
	}
	if acct == nil {
		return "", nil, ErrAuthFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthFailed
	}
	if !acct.IsActive {
		return "", nil, apperr.Forbidden("account disabled")
	}

	token, err := s.IssueToken(acct)
	if err != nil {
		return "", nil, err
	}
	return token, acct, nil
}

func (s *Service) IssueToken(acct *Account) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: acct.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return token.SignedString(s.secret)
}

func (s *Service) Me(ctx context.Context, actor Actor) (*Account, error) {
	acct, err := s.store.AccountByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, apperr.NotFound("user not found")
	}
	return acct, nil
}

func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", apperr.Invalid("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.Invalid("password is too long")
		}
		return "", err
	}
	return string(hash), nil
}
