package auth

import "github.com/trackteam/action-tracker/internal/domain/entities"

// AuthResponse is returned on successful registration or login
type AuthResponse struct {
	Token        string               `json:"token"`
	RefreshToken string               `json:"refresh_token"`
	User         *entities.PublicUser `json:"user"`
}
