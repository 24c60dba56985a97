package models

type User struct {
	ID         string `json:"id" db:"id"`
	Email      string `json:"email" db:"email"`
	Password   string `json:"-" db:"password"` // Never return password in JSON
	Name       string `json:"name" db:"name"`
	Role       string `json:"role" db:"role"` // "merchant" or "admin"
	BusinessID *int64 `json:"business_id,omitempty" db:"business_id"`
	CreatedAt  int64  `json:"created_at" db:"created_at"`
	UpdatedAt  int64  `json:"updated_at" db:"updated_at"`
}

type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	BusinessID *int64 `json:"business_id,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		BusinessID: u.BusinessID,
		CreatedAt:  u.CreatedAt,
	}
}
