package users

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"padel-backend/internal/matches"
)

func sampleUser() *User {
	return &User{
		ID:        primitive.NewObjectID(),
		Name:      "ana",
		Email:     "ana@x.com",
		Password:  "$2a$10$notarealhashnotarealhashnotarealhash",
		Phone:     123456789,
		Role:      RoleUser,
		Image:     DefaultImage,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestProjectorForUser(t *testing.T) {
	u := sampleUser()

	v := ProjectorFor(RoleUser)(u, nil)

	assert.Equal(t, u.Name, v.Name)
	assert.Equal(t, u.Email, v.Email)
	assert.Equal(t, u.Phone, v.Phone)
	assert.Empty(t, v.Role)
	assert.Nil(t, v.CreatedAt)
	assert.Nil(t, v.UpdatedAt)
	assert.NotNil(t, v.PadelMatches)
}

func TestProjectorForAdmin(t *testing.T) {
	u := sampleUser()
	expanded := []matches.Match{{ID: primitive.NewObjectID(), Court: "central"}}

	v := ProjectorFor(RoleAdmin)(u, expanded)

	assert.Equal(t, RoleUser, v.Role)
	require.NotNil(t, v.CreatedAt)
	require.NotNil(t, v.UpdatedAt)
	assert.Equal(t, expanded, v.PadelMatches)
}

func TestPasswordNeverSerialized(t *testing.T) {
	u := sampleUser()

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), u.Password)

	view := ProjectorFor(RoleAdmin)(u, nil)
	raw, err = json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), u.Password)
}

func TestUserRoleOmittedFromUserView(t *testing.T) {
	u := sampleUser()

	raw, err := json.Marshal(ProjectorFor(RoleUser)(u, nil))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "role")
	assert.NotContains(t, decoded, "createdAt")
	assert.Contains(t, decoded, "padelMatches")
}
