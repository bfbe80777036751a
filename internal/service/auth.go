// Package service implements the authentication service, the transaction
// ledger and the analytics engine on top of an explicit store handle.
package service

import (
	"context" // Request-scoped cancellation
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"strings" // String manipulation
	"time"    // Session lifetimes

	"finance_tracker/internal/apperr"  // Error taxonomy
	"finance_tracker/internal/domain"  // Importing domain models
	"finance_tracker/internal/session" // Server-side sessions
	"finance_tracker/internal/utils"   // Session tokens

	"github.com/go-playground/validator/v10" // Input validation
	"github.com/sirupsen/logrus"             // Structured logging
	"golang.org/x/crypto/bcrypt"             // Password hashing
	"gorm.io/gorm"                           // GORM ORM library
)

// maxUsernameLen is the column limit of domain.User.Username
const maxUsernameLen = 20

var validate = validator.New() // Shared validator, safe for concurrent use

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is a freshly established session.
type LoginResult struct {
	User      domain.PublicUser
	SessionID string
	Token     string
	ExpiresAt time.Time
}

// AuthService registers users, verifies credentials and manages sessions.
type AuthService struct {
	db       *gorm.DB
	sessions session.Store
	secret   string
	ttl      time.Duration
}

// NewAuthService returns an auth service storing users in db and sessions in
// sessions. Tokens are signed with secret and live for ttl.
func NewAuthService(db *gorm.DB, sessions session.Store, secret string, ttl time.Duration) *AuthService {
	return &AuthService{db: db, sessions: sessions, secret: secret, ttl: ttl}
}

// NormalizeEmail trims and lower-cases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the input and creates a user with a bcrypt password hash.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.PublicUser, error) {
	username := strings.TrimSpace(in.Username)
	email := NormalizeEmail(in.Email)

	if username == "" {
		return domain.PublicUser{}, apperr.Validation("Username is required")
	}
	if !withinLength(username, maxUsernameLen) {
		return domain.PublicUser{}, apperr.Validation("Username must be at most 20 characters")
	}
	if err := validate.Var(email, "required,email,max=120"); err != nil {
		return domain.PublicUser{}, apperr.Validation("Invalid email address")
	}
	if in.Password == "" {
		return domain.PublicUser{}, apperr.Validation("Password is required")
	}
	// bcrypt ignores everything past 72 bytes
	if len(in.Password) > 72 {
		return domain.PublicUser{}, apperr.Validation("Password must be at most 72 bytes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost) // Hash the password
	if err != nil {
		return domain.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{Username: username, Email: email, PasswordHash: string(hash)}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("Email already registered")
		}
		if err := tx.Model(&domain.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("Username already taken")
		}
		return tx.Create(&user).Error // Create user in DB
	})
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// a concurrent registration won the unique index
		return domain.PublicUser{}, apperr.Conflict("Email or username already registered")
	case errors.Is(err, apperr.ErrConflict):
		return domain.PublicUser{}, err
	case err != nil:
		return domain.PublicUser{}, fmt.Errorf("create user: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User registered")
	return user.Public(), nil
}

// Login checks the credentials and opens a new session for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Auth("Invalid credentials")
	} else if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	// Compare the stored hash with the provided password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logrus.WithField("user_id", user.ID).Warn("Login failed: wrong password")
		return nil, apperr.Auth("Invalid credentials")
	}

	sess, err := s.sessions.Create(ctx, user.ID, s.ttl)
	if err != nil {
		return nil, err
	}
	token, err := utils.GenerateSessionToken(user.ID, sess.ID, s.secret, s.ttl)
	if err != nil {
		_ = s.sessions.Delete(ctx, sess.ID) // Drop the session nobody can use
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	logrus.WithField("user_id", user.ID).Info("User logged in")
	return &LoginResult{
		User:      user.Public(),
		SessionID: sess.ID,
		Token:     token,
		ExpiresAt: sess.CreatedAt.Add(s.ttl),
	}, nil
}

// Authenticate resolves a session token to its claims. The token must verify
// and still point at a live session owned by the same user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := utils.ParseSessionToken(token, s.secret)
	if err != nil {
		return nil, apperr.Auth("Invalid or expired session")
	}
	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, apperr.Auth("Invalid or expired session")
	} else if err != nil {
		return nil, err
	}
	if sess.UserID != claims.UserID {
		return nil, apperr.Auth("Invalid or expired session")
	}
	return claims, nil
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// CurrentUser returns the public identity of an authenticated user id.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (domain.PublicUser, error) {
	var user domain.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.PublicUser{}, apperr.Auth("Unauthorized")
	} else if err != nil {
		return domain.PublicUser{}, fmt.Errorf("load user: %w", err)
	}
	return user.Public(), nil
}

// FindByEmail looks a user up for operator tooling.
func (s *AuthService) FindByEmail(ctx context.Context, email string) (domain.PublicUser, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.PublicUser{}, apperr.NotFound("User not found")
	} else if err != nil {
		return domain.PublicUser{}, fmt.Errorf("find user: %w", err)
	}
	return user.Public(), nil
}

// DeleteUser removes a user together with their transactions and sessions.
func (s *AuthService) DeleteUser(ctx context.Context, userID uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.User{}, userID)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("User not found")
	}
	if err := s.sessions.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	logrus.WithField("user_id", userID).Info("User deleted")
	return nil
}
