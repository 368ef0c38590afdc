package api

// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Error  string            `json:"error" example:"Invalid credentials"`
	Fields map[string]string `json:"fields,omitempty"`
}

// swagger:model api.MessageResponse
type MessageResponse struct {
	Message string `json:"message" example:"User registered successfully"`
}
