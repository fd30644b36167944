package types

// UserWithAuth is the caller resolved from a bearer token.
type UserWithAuth struct {
	ID    uint64 `json:"id" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role" validate:"omitempty"`
}
