package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	ErrInvalidRole        = shared.NewDomainError("INVALID_ROLE", "Role is not valid")
	ErrInvalidCredentials = shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
	ErrUserInactive       = shared.NewDomainError("UNAUTHORIZED", "User account is deactivated")
	ErrRoleNotAssignable  = shared.NewDomainError("FORBIDDEN", "Cannot assign a role above your own")

	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterRegex = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex  = regexp.MustCompile(`[0-9]`)
)

// User is a person who signs in to a company's workspace
type User struct {
	shared.CompanyAggregateRoot
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Active       bool
	LastLoginAt  *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(companyID uuid.UUID, email, name, password string, role Role) (*User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	u := &User{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Email:                email,
		Name:                 name,
		Role:                 role,
		Active:               true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// GetRole implements Principal
func (u *User) GetRole() Role {
	if u == nil {
		return ""
	}
	return u.Role
}

// IsActive implements Principal
func (u *User) IsActive() bool {
	return u != nil && u.Active
}

// Can reports whether the user may perform p
func (u *User) Can(p Permission) bool {
	return Can(u, p)
}

// SetPassword validates and hashes a new password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	return nil
}

// ChangePassword replaces the password after verifying the current one
func (u *User) ChangePassword(current, next string) error {
	if !u.CheckPassword(current) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	if err := u.SetPassword(next); err != nil {
		return err
	}
	u.IncrementVersion()
	return nil
}

// CheckPassword compares password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UpdateProfile changes the display name and email
func (u *User) UpdateProfile(name, email string) error {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	u.Name = name
	u.Email = email
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// ChangeRole assigns a new role on behalf of actor
func (u *User) ChangeRole(actor Role, role Role) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}
	if !actor.CanAssign(role) {
		return ErrRoleNotAssignable
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// Activate re-enables a deactivated user
func (u *User) Activate() {
	u.Active = true
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// Deactivate blocks sign-in while keeping the user's history
func (u *User) Deactivate() {
	u.Active = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// RecordLogin stamps a successful sign-in
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.UpdatedAt = at
}

// Authenticate verifies credentials and returns the error surfaced to callers
func (u *User) Authenticate(password string) error {
	if !u.CheckPassword(password) {
		return ErrInvalidCredentials
	}
	if !u.Active {
		return ErrUserInactive
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt ignores bytes past 72
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !letterRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}
