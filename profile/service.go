package profile

import (
	"context"
	"html"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/aloks98/devconnector/store"
)

// Repository is the persistence the profile service needs.
type Repository interface {
	store.UserStore
	store.ProfileStore
}

// Sanitizer cleans user supplied free text before it is stored.
type Sanitizer interface {
	Sanitize(s string) string
}

// TagStripper removes HTML markup from free text. Everything else, including
// &, < and quotes outside of tags, is kept as typed.
type TagStripper struct {
	policy *bluemonday.Policy
}

// NewTagStripper returns a Sanitizer backed by bluemonday's strict policy.
func NewTagStripper() *TagStripper {
	return &TagStripper{policy: bluemonday.StrictPolicy()}
}

// Sanitize strips tags and undoes the entity escaping the policy applies.
func (t *TagStripper) Sanitize(s string) string {
	return html.UnescapeString(t.policy.Sanitize(s))
}

// Option configures a Service.
type Option func(*Service)

// WithSanitizer cleans bio and entry descriptions before they are stored.
// By default free text is stored as submitted.
func WithSanitizer(s Sanitizer) Option {
	return func(svc *Service) {
		svc.sanitizer = s
	}
}

// WithClock sets the time source for profile creation dates.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) {
		if now != nil {
			svc.now = now
		}
	}
}

// Service runs profile updates against a repository. Updates are
// read-modify-write; concurrent writers to one profile are last-writer-wins.
type Service struct {
	repo      Repository
	sanitizer Sanitizer
	now       func() time.Time
}

// NewService creates a profile service.
func NewService(repo Repository, opts ...Option) *Service {
	svc := &Service{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Get returns the owner's profile or ErrProfileNotFound.
func (s *Service) Get(ctx context.Context, ownerID string) (*store.Profile, error) {
	p, err := s.repo.FindProfileByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// ByOwner returns the owner's profile populated with name and avatar.
func (s *Service) ByOwner(ctx context.Context, ownerID string) (*store.ProfileView, error) {
	p, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	owner, err := s.repo.FindUserByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	view := store.NewProfileView(p, owner)
	return &view, nil
}

// List returns every profile populated with its owner, oldest first.
func (s *Service) List(ctx context.Context) ([]store.ProfileView, error) {
	profiles, err := s.repo.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]store.ProfileView, 0, len(profiles))
	for _, p := range profiles {
		owner, err := s.repo.FindUserByID(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		views = append(views, store.NewProfileView(p, owner))
	}
	return views, nil
}

// Upsert creates the owner's profile or merges the provided fields over it.
func (s *Service) Upsert(ctx context.Context, ownerID string, in Input) (*store.Profile, error) {
	fields := BuildFields(ownerID, in)
	if fields.Bio != nil {
		bio := s.sanitize(*fields.Bio)
		fields.Bio = &bio
	}

	existing, err := s.repo.FindProfileByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	p := ApplyUpdate(existing, fields)
	if p.Date.IsZero() {
		p.Date = s.now().UTC()
	}
	if err := s.repo.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AddExperience inserts an experience entry at the front of the owner's profile.
func (s *Service) AddExperience(ctx context.Context, ownerID string, entry store.ExperienceEntry) (*store.Profile, error) {
	return s.mutate(ctx, ownerID, func(p *store.Profile) error {
		entry.Description = s.sanitize(entry.Description)
		AddExperience(p, entry)
		return nil
	})
}

// RemoveExperience removes an experience entry from the owner's profile.
func (s *Service) RemoveExperience(ctx context.Context, ownerID, entryID string) (*store.Profile, error) {
	return s.mutate(ctx, ownerID, func(p *store.Profile) error {
		return RemoveExperience(p, entryID)
	})
}

// AddEducation inserts an education entry at the front of the owner's profile.
func (s *Service) AddEducation(ctx context.Context, ownerID string, entry store.EducationEntry) (*store.Profile, error) {
	return s.mutate(ctx, ownerID, func(p *store.Profile) error {
		entry.Description = s.sanitize(entry.Description)
		AddEducation(p, entry)
		return nil
	})
}

// RemoveEducation removes an education entry from the owner's profile.
func (s *Service) RemoveEducation(ctx context.Context, ownerID, entryID string) (*store.Profile, error) {
	return s.mutate(ctx, ownerID, func(p *store.Profile) error {
		return RemoveEducation(p, entryID)
	})
}

// Delete removes the owner's profile. A missing profile is not an error.
func (s *Service) Delete(ctx context.Context, ownerID string) error {
	return s.repo.DeleteProfile(ctx, ownerID)
}

// mutate loads the profile, applies fn and persists the result. Nothing is
// written when fn fails.
func (s *Service) mutate(ctx context.Context, ownerID string, fn func(*store.Profile) error) (*store.Profile, error) {
	p, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.repo.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) sanitize(text string) string {
	if s.sanitizer == nil || text == "" {
		return text
	}
	return s.sanitizer.Sanitize(text)
}
