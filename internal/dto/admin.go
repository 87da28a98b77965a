package dto

type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"` // seconds
}

type ProviderTestResponse struct {
	Connected bool   `json:"connected"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
}
