package users

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"padel-backend/internal/matches"
)

// View is the response shape of a user record. Which fields are populated
// depends on the caller's role; the password hash is never part of any view.
type View struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Phone        int64              `json:"phone"`
	Image        string             `json:"image"`
	PadelMatches []matches.Match    `json:"padelMatches"`
	Role         Role               `json:"role,omitempty"`
	CreatedAt    *time.Time         `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time         `json:"updatedAt,omitempty"`
}

// fieldVisibility declares which extra fields each role may see on top of
// the public set.
var fieldVisibility = map[Role][]string{
	RoleAdmin: {"role", "createdAt", "updatedAt"},
	RoleUser:  {},
}

// Projector builds the view of a user appropriate for one caller role.
type Projector func(u *User, expanded []matches.Match) View

// ProjectorFor returns the projector for a caller role, computed once per
// request and applied to every record in the response.
func ProjectorFor(role Role) Projector {
	visible := map[string]bool{}
	for _, f := range fieldVisibility[role] {
		visible[f] = true
	}

	return func(u *User, expanded []matches.Match) View {
		if expanded == nil {
			expanded = []matches.Match{}
		}
		v := View{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			Phone:        u.Phone,
			Image:        u.Image,
			PadelMatches: expanded,
		}
		if visible["role"] {
			v.Role = u.Role
		}
		if visible["createdAt"] {
			createdAt := u.CreatedAt
			v.CreatedAt = &createdAt
		}
		if visible["updatedAt"] {
			updatedAt := u.UpdatedAt
			v.UpdatedAt = &updatedAt
		}
		return v
	}
}
