package dto

type LoginRequest struct {
	Email    string `json:"email" validate:"required,notblank,max=255"`
	Password string `json:"password" validate:"required,notblank"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"` // วินาที
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,notblank,email,max=255"`
	Password  string `json:"password" validate:"required,notblank,max=72"`
	FirstName string `json:"firstName" validate:"required,notblank,max=100"`
	LastName  string `json:"lastName" validate:"required,notblank,max=100"`
}
