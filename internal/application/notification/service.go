// Package notification serves the in-app inbox of each agent.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/notification"
	"github.com/sfa/backend/internal/domain/shared"
)

// ListQuery filters the inbox
type ListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status" binding:"omitempty,oneof=read unread"`
}

// Response is the API view of a notification
type Response struct {
	ID          uuid.UUID  `json:"id"`
	ReferenceID string     `json:"referenceid"`
	Type        string     `json:"type"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	ReadAt      *time.Time `json:"readat,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToResponse converts a domain notification
func ToResponse(n *notification.Notification) Response {
	return Response{
		ID:          n.ID,
		ReferenceID: n.ReferenceID,
		Type:        n.Type,
		Message:     n.Message,
		Status:      string(n.Status),
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}

// Service reads and acknowledges notifications. Every call is scoped to the
// recipient's reference ID.
type Service struct {
	repo notification.Repository
	now  func() time.Time
}

// NewService creates a notification Service
func NewService(repo notification.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns one page of the recipient's notifications, newest first
func (s *Service) List(ctx context.Context, recipient string, q ListQuery) (shared.Paginated[Response], error) {
	filter := notification.Filter{
		Filter: shared.Filter{
			Page:     q.Page,
			PageSize: q.PageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
		}.Normalize(),
		ReferenceID: recipient,
		Status:      notification.Status(q.Status),
	}
	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[Response]{}, err
	}
	out := make([]Response, len(items))
	for i := range items {
		out[i] = ToResponse(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// UnreadCount returns how many notifications the recipient has not read
func (s *Service) UnreadCount(ctx context.Context, recipient string) (int64, error) {
	return s.repo.CountUnread(ctx, recipient)
}

// MarkRead marks one of the recipient's notifications read. Someone else's
// notification reads as not found.
func (s *Service) MarkRead(ctx context.Context, recipient string, id uuid.UUID) (*Response, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.ReferenceID != recipient {
		return nil, shared.ErrNotFound
	}
	if n.Status != notification.StatusRead {
		n.MarkRead(s.now())
		if err := s.repo.Save(ctx, n); err != nil {
			return nil, err
		}
	}
	response := ToResponse(n)
	return &response, nil
}

// MarkAllRead marks every unread notification of the recipient read
func (s *Service) MarkAllRead(ctx context.Context, recipient string) (int64, error) {
	return s.repo.MarkAllRead(ctx, recipient, s.now())
}
