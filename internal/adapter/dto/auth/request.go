package auth

// RegisterRequest represents the request to create an account
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"omitempty,max=255"`
	Role     string `json:"role" validate:"omitempty,max=50"`
}

// LoginRequest represents the request to authenticate
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateRoleRequest represents the admin request to change a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// ResetPasswordRequest represents the admin request to set a new password
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}
