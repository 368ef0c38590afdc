package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=150" example:"johndoe"`
	Email    string `json:"email" form:"email" validate:"required,email,max=254" example:"john@example.com"`
	Password string `json:"password" form:"password" validate:"required" example:"Str0ng!Pass"`
}

// swagger:model api.LoginRequest
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required" example:"johndoe"`
	Password string `json:"password" form:"password" validate:"required" example:"Str0ng!Pass"`
}

// swagger:model api.RefreshRequest
type RefreshRequest struct {
	Refresh string `json:"refresh" form:"refresh" validate:"required"`
}

// swagger:model api.ChangePasswordRequest
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" form:"old_password" validate:"required" example:"OldSecret123!"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required" example:"NewSecret456!"`
}

// swagger:model api.UpdateProfileRequest
type UpdateProfileRequest struct {
	Email     *string `json:"email" validate:"omitempty,email,max=254" example:"john@example.com"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150" example:"John"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150" example:"Doe"`
}

// swagger:model api.ResetPasswordRequest
type ResetPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email" example:"john@example.com"`
}

// swagger:model api.ConfirmResetPasswordRequest
type ConfirmResetPasswordRequest struct {
	Token       string `json:"token" form:"token" validate:"required"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required" example:"NewSecret456!"`
}
