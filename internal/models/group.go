package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Group is a named chat group. The member set holds user ids and has no
// duplicates; the admin is added as the first member at creation time by the
// group service.
type Group struct {
	ID          string    `json:"group_id"`
	Name        string    `json:"group_name"`
	Description string    `json:"group_description,omitempty"`
	AdminID     string    `json:"admin"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewGroup creates a group with an empty member set.
func NewGroup(name, description, adminID string, now time.Time) *Group {
	return &Group{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		AdminID:     adminID,
		Members:     []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AddMember appends a member id, rejecting duplicates.
func (g *Group) AddMember(memberID string, now time.Time) error {
	if slices.Contains(g.Members, memberID) {
		return ErrDuplicateMember
	}
	g.Members = append(g.Members, memberID)
	g.UpdatedAt = now
	return nil
}

// RemoveMember removes a member id, rejecting ids that are not present.
func (g *Group) RemoveMember(memberID string, now time.Time) error {
	i := slices.Index(g.Members, memberID)
	if i < 0 {
		return ErrMemberNotFound
	}
	g.Members = slices.Delete(g.Members, i, i+1)
	g.UpdatedAt = now
	return nil
}

// HasMember reports whether the id is in the member set.
func (g *Group) HasMember(memberID string) bool {
	return slices.Contains(g.Members, memberID)
}

// UpdateDetails applies only the provided fields and stamps the update time.
func (g *Group) UpdateDetails(name, description *string, now time.Time) {
	if name != nil {
		g.Name = *name
	}
	if description != nil {
		g.Description = *description
	}
	g.UpdatedAt = now
}
