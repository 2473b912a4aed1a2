// Package profile implements profile documents: partial-field upserts and
// experience/education list mutations.
package profile

import (
	"errors"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/aloks98/devconnector/store"
)

var (
	// ErrProfileNotFound indicates the owner has no profile.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrEntryNotFound indicates no experience or education entry has the id.
	ErrEntryNotFound = errors.New("profile entry not found")
)

// Input is a partial profile payload. A nil field is absent.
type Input struct {
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GitHubUsername *string

	// Skills is a comma-delimited list.
	Skills *string

	YouTube   *string
	Facebook  *string
	Twitter   *string
	Instagram *string
	LinkedIn  *string
}

// Fields is the set of profile fields an update writes. Nil fields are
// left untouched on an existing profile.
type Fields struct {
	UserID string

	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GitHubUsername *string
	Skills         []string

	// Social replaces the whole social object when set.
	Social *store.Social
}

// BuildFields keeps every provided, non-empty scalar of in and drops the rest.
func BuildFields(ownerID string, in Input) Fields {
	f := Fields{
		UserID:         ownerID,
		Company:        provided(in.Company),
		Website:        provided(in.Website),
		Location:       provided(in.Location),
		Bio:            provided(in.Bio),
		Status:         provided(in.Status),
		GitHubUsername: provided(in.GitHubUsername),
	}

	if skills := provided(in.Skills); skills != nil {
		f.Skills = SplitSkills(*skills)
	}

	var social store.Social
	hasSocial := false
	set := func(dst *string, src *string) {
		if v := provided(src); v != nil {
			*dst = *v
			hasSocial = true
		}
	}
	set(&social.YouTube, in.YouTube)
	set(&social.Facebook, in.Facebook)
	set(&social.Twitter, in.Twitter)
	set(&social.Instagram, in.Instagram)
	set(&social.LinkedIn, in.LinkedIn)
	if hasSocial {
		f.Social = &social
	}

	return f
}

// SplitSkills splits a comma-delimited list, trimming each element.
// Order and duplicates are kept.
func SplitSkills(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func provided(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	v := *p
	return &v
}

// ApplyUpdate returns the profile that results from writing f over existing.
// A nil existing profile creates a new one owned by f.UserID. existing is
// never modified.
func ApplyUpdate(existing *store.Profile, f Fields) *store.Profile {
	var p *store.Profile
	if existing == nil {
		p = &store.Profile{
			UserID:     f.UserID,
			Skills:     []string{},
			Experience: []store.ExperienceEntry{},
			Education:  []store.EducationEntry{},
		}
	} else {
		p = existing.Clone()
	}

	assign(&p.Company, f.Company)
	assign(&p.Website, f.Website)
	assign(&p.Location, f.Location)
	assign(&p.Bio, f.Bio)
	assign(&p.Status, f.Status)
	assign(&p.GitHubUsername, f.GitHubUsername)
	if f.Skills != nil {
		p.Skills = append([]string(nil), f.Skills...)
	}
	if f.Social != nil {
		p.Social = *f.Social
	}

	return p
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// NewEntryID returns a fresh, time-ordered entry id.
func NewEntryID() string {
	return ulid.Make().String()
}

// AddExperience assigns entry a fresh id and inserts it first.
func AddExperience(p *store.Profile, entry store.ExperienceEntry) string {
	entry.ID = NewEntryID()
	p.Experience = append([]store.ExperienceEntry{entry}, p.Experience...)
	return entry.ID
}

// RemoveExperience removes the experience entry with the id.
func RemoveExperience(p *store.Profile, id string) error {
	for i, e := range p.Experience {
		if e.ID == id {
			p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

// AddEducation assigns entry a fresh id and inserts it first.
func AddEducation(p *store.Profile, entry store.EducationEntry) string {
	entry.ID = NewEntryID()
	p.Education = append([]store.EducationEntry{entry}, p.Education...)
	return entry.ID
}

// RemoveEducation removes the education entry with the id.
func RemoveEducation(p *store.Profile, id string) error {
	for i, e := range p.Education {
		if e.ID == id {
			p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}
