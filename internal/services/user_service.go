package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"aura/internal/database"
	"aura/internal/models"
	"aura/pkg/auth"
)

// Sentinel errors the auth handlers map to response codes
var (
	ErrEmailTaken         = fmt.Errorf("email already registered")
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrUserNotFound       = fmt.Errorf("user not found")
)

// UserService owns account rows and password verification
type UserService struct {
	db      *database.DB
	jwtAuth *auth.LocalJWTAuth
}

// NewUserService creates a user account store
func NewUserService(db *database.DB, jwtAuth *auth.LocalJWTAuth) *UserService {
	return &UserService{db: db, jwtAuth: jwtAuth}
}

// Register creates an account with a hashed password
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("valid email is required")
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := s.jwtAuth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:          uuid.New().String(),
		Email:       email,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Plan:        "free",
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, display_name, plan)
		VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, hash, user.DisplayName, user.Plan)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("✅ Registered user %s (%s)", user.Email, user.ID)
	return user, nil
}

// Authenticate verifies a password and returns the account
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	var hash string
	var displayName sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, display_name, plan, created_at, updated_at
		FROM users WHERE email = ?`,
		email).Scan(&user.ID, &user.Email, &hash, &displayName, &user.Plan, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	user.DisplayName = displayName.String

	ok, err := s.jwtAuth.VerifyPassword(hash, password)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetByID loads an account by id
func (s *UserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	var displayName, dodoCustomerID sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, plan, dodo_customer_id, created_at, updated_at
		FROM users WHERE id = ?`,
		userID).Scan(&user.ID, &user.Email, &displayName, &user.Plan, &dodoCustomerID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	user.DisplayName = displayName.String
	user.DodoCustomerID = dodoCustomerID.String
	return &user, nil
}

// SetDodoCustomerID records the payment provider's customer id for a user
func (s *UserService) SetDodoCustomerID(ctx context.Context, userID, customerID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET dodo_customer_id = ? WHERE id = ?`, customerID, userID)
	if err != nil {
		return fmt.Errorf("failed to store customer id: %w", err)
	}
	return nil
}

// ListIDs returns every account id, for background sync fan-out
func (s *UserService) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdatePlan sets the account's billing plan
func (s *UserService) UpdatePlan(ctx context.Context, userID, plan string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET plan = ? WHERE id = ?`, plan, userID)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return nil
}
