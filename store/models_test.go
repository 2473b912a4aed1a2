package store

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_CloneIsDeep(t *testing.T) {
	p := &Profile{
		UserID:     "user-1",
		Skills:     []string{"go"},
		Experience: []ExperienceEntry{{ID: "e1", Title: "Dev"}},
		Education:  []EducationEntry{{ID: "d1", School: "MIT"}},
		Social:     Social{Twitter: "@ana"},
	}

	c := p.Clone()
	c.Skills[0] = "js"
	c.Experience[0].Title = "Lead"
	c.Education[0].School = "CMU"
	c.Social.Twitter = "@bob"

	assert.Equal(t, "go", p.Skills[0])
	assert.Equal(t, "Dev", p.Experience[0].Title)
	assert.Equal(t, "MIT", p.Education[0].School)
	assert.Equal(t, "@ana", p.Social.Twitter)
}

func TestClone_Nil(t *testing.T) {
	var p *Profile
	var u *User

	assert.Nil(t, p.Clone())
	assert.Nil(t, u.Clone())
}

func TestSortProfiles(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	profiles := []*Profile{
		{UserID: "c", Date: t0.Add(time.Hour)},
		{UserID: "b", Date: t0},
		{UserID: "a", Date: t0},
	}

	SortProfiles(profiles)

	got := []string{profiles[0].UserID, profiles[1].UserID, profiles[2].UserID}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable(cause)

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
}

func TestProfileView_MarshalsPopulatedUser(t *testing.T) {
	p := &Profile{UserID: "user-1", Status: "Developer", Skills: []string{"go"}}
	owner := &User{ID: "user-1", Name: "Ana", Avatar: "//avatar", PasswordHash: "secret-hash"}

	data, err := json.Marshal(NewProfileView(p, owner))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, map[string]any{"_id": "user-1", "name": "Ana", "avatar": "//avatar"}, decoded["user"])
	assert.Equal(t, "Developer", decoded["status"])
	assert.NotContains(t, string(data), "secret-hash")
}

func TestUser_PasswordHashRoundTrips(t *testing.T) {
	u := &User{ID: "u", PasswordHash: "$2a$10$abc"}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var back User
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, u.PasswordHash, back.PasswordHash)
}
