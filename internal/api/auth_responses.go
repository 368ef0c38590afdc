package api

import "storefront/internal/model"

// swagger:model api.UserSummary
type UserSummary struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"johndoe"`
	Email    string `json:"email" example:"john@example.com"`
}

// swagger:model api.LoginResponse
type LoginResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    UserSummary `json:"user"`
}

// swagger:model api.RefreshResponse
type RefreshResponse struct {
	Access string `json:"access"`
}

// swagger:model api.ProfileResponse
type ProfileResponse struct {
	ID        int64      `json:"id" example:"1"`
	Username  string     `json:"username" example:"johndoe"`
	Email     string     `json:"email" example:"john@example.com"`
	FirstName string     `json:"first_name" example:"John"`
	LastName  string     `json:"last_name" example:"Doe"`
	Role      model.Role `json:"role" example:"customer"`
}

func NewProfileResponse(u *model.User) ProfileResponse {
	return ProfileResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}
