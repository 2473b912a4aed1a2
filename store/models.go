package store

import (
	"slices"
	"sort"
	"time"
)

// User is a registered account and its credential.
type User struct {
	// ID is the unique user identifier.
	ID string `json:"_id"`

	// Name is the display name.
	Name string `json:"name"`

	// Email is unique across users.
	Email string `json:"email"`

	// Avatar is the avatar image URL derived from the email.
	Avatar string `json:"avatar"`

	// PasswordHash is the self-describing password hash, never the plaintext.
	PasswordHash string `json:"password_hash"`

	// Date is when the user registered.
	Date time.Time `json:"date"`
}

// Clone returns a copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Social holds the social network links of a profile.
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// ExperienceEntry is a job held by the profile owner.
type ExperienceEntry struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	From        string `json:"from"`
	To          string `json:"to,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

// EducationEntry is a school attended by the profile owner.
type EducationEntry struct {
	ID           string `json:"_id"`
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to,omitempty"`
	Current      bool   `json:"current"`
	Description  string `json:"description,omitempty"`
}

// Profile is the professional profile document owned by one user.
type Profile struct {
	// UserID references the owning user.
	UserID string `json:"user"`

	Company        string `json:"company,omitempty"`
	Website        string `json:"website,omitempty"`
	Location       string `json:"location,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Status         string `json:"status"`
	GitHubUsername string `json:"githubusername,omitempty"`

	// Skills keeps the submitted order; duplicates are allowed.
	Skills []string `json:"skills"`

	Social Social `json:"social"`

	// Experience and Education are ordered most recent first.
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`

	// Date is when the profile was created.
	Date time.Time `json:"date"`
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.Skills = slices.Clone(p.Skills)
	c.Experience = slices.Clone(p.Experience)
	c.Education = slices.Clone(p.Education)
	return &c
}

// SortProfiles orders profiles by creation date, then by owner id.
func SortProfiles(profiles []*Profile) {
	sort.SliceStable(profiles, func(i, j int) bool {
		if !profiles[i].Date.Equal(profiles[j].Date) {
			return profiles[i].Date.Before(profiles[j].Date)
		}
		return profiles[i].UserID < profiles[j].UserID
	})
}

// UserRef is the public projection of a user attached to profile responses.
type UserRef struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// ProfileView is a profile populated with its owner's name and avatar.
// The embedded owner id is replaced by the user reference when encoded.
type ProfileView struct {
	*Profile
	User UserRef `json:"user"`
}

// NewProfileView populates a profile with its owner. A nil owner leaves
// only the id in the reference.
func NewProfileView(p *Profile, owner *User) ProfileView {
	ref := UserRef{ID: p.UserID}
	if owner != nil {
		ref.Name = owner.Name
		ref.Avatar = owner.Avatar
	}
	return ProfileView{Profile: p, User: ref}
}
