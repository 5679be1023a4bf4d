package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole is the department/role a user belongs to. Roles double as the
// hints the owner resolver matches against (e.g. "John (Engineering)").
type UserRole string

const (
	RoleEngineer   UserRole = "Engineer"
	RoleAdmin      UserRole = "Admin"
	RoleDesign     UserRole = "Design"
	RolePM         UserRole = "PM"
	RoleLegal      UserRole = "Legal"
	RoleMarketing  UserRole = "Marketing"
	RoleSales      UserRole = "Sales"
	RoleProduct    UserRole = "Product"
	RoleOperations UserRole = "Operations"
	RoleFinance    UserRole = "Finance"
	RoleHR         UserRole = "HR"
	RoleSupport    UserRole = "Support"
	RoleOther      UserRole = "Other"
)

// ValidRoles lists every role accepted at registration.
var ValidRoles = []UserRole{
	RoleEngineer, RoleAdmin, RoleDesign, RolePM, RoleLegal, RoleMarketing,
	RoleSales, RoleProduct, RoleOperations, RoleFinance, RoleHR, RoleSupport,
	RoleOther,
}

// IsValid checks if the user role is valid
func (r UserRole) IsValid() bool {
	for _, valid := range ValidRoles {
		if r == valid {
			return true
		}
	}
	return false
}

// User represents a user in the system. The set of all users is the
// identity directory the owner resolver matches extracted names against.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Role         UserRole  `json:"role" gorm:"type:varchar(50);default:'Other';not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;type:text"` // Never expose in JSON

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user with default values
func NewUser(email, name string, role UserRole) *User {
	now := time.Now()
	if name == "" {
		// Match the registration fallback: derive a display name from the
		// email local part.
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		} else {
			name = email
		}
	}
	return &User{
		ID:        uuid.New(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin checks if user is admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Validate validates user data
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrInvalidEmail
	}
	if u.Name == "" {
		return ErrInvalidName
	}
	if !u.Role.IsValid() {
		return ErrInvalidRole
	}
	return nil
}

// PublicUser returns a user with sensitive fields removed
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToPublic converts User to PublicUser
func (u *User) ToPublic() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
