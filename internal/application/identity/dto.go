package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/identity"
)

// CreateUserRequest registers an agent. The reference ID is generated from
// the name and location.
type CreateUserRequest struct {
	Firstname string `json:"firstname" binding:"required,max=100"`
	Lastname  string `json:"lastname" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email,max=255"`
	Role      string `json:"role" binding:"required"`
	Location  string `json:"location" binding:"max=100"`
	Manager   string `json:"manager"`
	TSM       string `json:"tsm"`
}

// UserListQuery filters the user listing
type UserListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search   string `form:"search"`
	Role     string `form:"role"`
	Manager  string `form:"manager"`
	TSM      string `form:"tsm"`
	Status   string `form:"status"`
}

// UserResponse is the API view of a user
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	ReferenceID string    `json:"referenceid"`
	Firstname   string    `json:"firstname"`
	Lastname    string    `json:"lastname"`
	FullName    string    `json:"fullname"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Manager     string    `json:"manager"`
	TSM         string    `json:"tsm"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToUserResponse converts a domain user
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		ReferenceID: u.ReferenceID,
		Firstname:   u.Firstname,
		Lastname:    u.Lastname,
		FullName:    u.FullName(),
		Email:       u.Email,
		Role:        string(u.Role),
		Manager:     u.Manager,
		TSM:         u.TSM,
		Location:    u.Location,
		Status:      string(u.Status),
		CreatedAt:   u.CreatedAt,
	}
}

func toUserResponses(users []identity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}
