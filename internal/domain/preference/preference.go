// Package preference keeps per-user UI state that used to live in browser
// storage: recent e-mail recipients, the chosen avatar and which filter
// panels are expanded.
package preference

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxRecentEmails caps the recent e-mail list
const MaxRecentEmails = 5

// ErrUpdateContended means a store gave up on an update because other
// writers kept changing the document underneath it
var ErrUpdateContended = errors.New("preferences kept changing during update")

// Preferences is the stored document for one user
type Preferences struct {
	ReferenceID          string          `json:"referenceid"`
	RecentEmails         []string        `json:"recentEmails"`
	SelectedAvatar       string          `json:"selectedAvatar"`
	ExpandedFiltersState map[string]bool `json:"expandedFiltersState"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// New returns empty preferences for a user
func New(referenceID string) *Preferences {
	return &Preferences{
		ReferenceID:          referenceID,
		RecentEmails:         make([]string, 0),
		ExpandedFiltersState: make(map[string]bool),
	}
}

// RememberEmail moves email to the front of the recent list.
// Matching is case-insensitive and the list never exceeds MaxRecentEmails.
func (p *Preferences) RememberEmail(email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return
	}
	next := make([]string, 0, MaxRecentEmails)
	next = append(next, email)
	for _, e := range p.RecentEmails {
		if len(next) == MaxRecentEmails {
			break
		}
		if strings.EqualFold(e, email) {
			continue
		}
		next = append(next, e)
	}
	p.RecentEmails = next
}

// SetFilterExpanded records the state of one filter panel
func (p *Preferences) SetFilterExpanded(panel string, expanded bool) {
	if p.ExpandedFiltersState == nil {
		p.ExpandedFiltersState = make(map[string]bool)
	}
	p.ExpandedFiltersState[panel] = expanded
}

// Merge applies a partial update. Nil fields are left untouched.
func (p *Preferences) Merge(avatar *string, filters map[string]bool) {
	if avatar != nil {
		p.SelectedAvatar = *avatar
	}
	for panel, expanded := range filters {
		p.SetFilterExpanded(panel, expanded)
	}
}

// Store loads and saves preference documents
type Store interface {
	// Get returns the stored preferences, or empty ones when nothing is stored
	Get(ctx context.Context, referenceID string) (*Preferences, error)
	Put(ctx context.Context, prefs *Preferences) error
	// Update applies fn to the current document and stores the result
	// atomically. A write that lands between the read and the store makes
	// Update start over with the newer document.
	Update(ctx context.Context, referenceID string, fn func(*Preferences)) (*Preferences, error)
	Delete(ctx context.Context, referenceID string) error
}
