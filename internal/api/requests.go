package api

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/aloks98/devconnector/profile"
	"github.com/aloks98/devconnector/store"
)

// maxPasswordBytes is the longest password bcrypt can hash.
const maxPasswordBytes = 72

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("Name is required")),
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Email is required"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("Minimum six characters required"),
			validation.Length(6, 0).Error("Minimum six characters required"),
			validation.Length(0, maxPasswordBytes).Error("Password is too long"),
		),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Email is required"),
		),
		validation.Field(&r.Password, validation.Required.Error("Password is required")),
	)
}

type profileRequest struct {
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	Status         *string `json:"status"`
	GitHubUsername *string `json:"githubusername"`
	Skills         *string `json:"skills"`
	YouTube        *string `json:"youtube"`
	Facebook       *string `json:"facebook"`
	Twitter        *string `json:"twitter"`
	Instagram      *string `json:"instagram"`
	LinkedIn       *string `json:"linkedin"`
}

func (r profileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required.Error("Status is required")),
		validation.Field(&r.Skills, validation.Required.Error("Skills is required")),
	)
}

func (r profileRequest) input() profile.Input {
	return profile.Input{
		Company:        r.Company,
		Website:        r.Website,
		Location:       r.Location,
		Bio:            r.Bio,
		Status:         r.Status,
		GitHubUsername: r.GitHubUsername,
		Skills:         r.Skills,
		YouTube:        r.YouTube,
		Facebook:       r.Facebook,
		Twitter:        r.Twitter,
		Instagram:      r.Instagram,
		LinkedIn:       r.LinkedIn,
	}
}

type experienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

func (r experienceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("Title is required")),
		validation.Field(&r.Company, validation.Required.Error("Company is required")),
		validation.Field(&r.From, validation.Required.Error("From date is required")),
	)
}

func (r experienceRequest) entry() store.ExperienceEntry {
	return store.ExperienceEntry{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		From:        r.From,
		To:          r.To,
		Current:     r.Current,
		Description: r.Description,
	}
}

type educationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (r educationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.School, validation.Required.Error("School is required")),
		validation.Field(&r.Degree, validation.Required.Error("Degree is required")),
		validation.Field(&r.FieldOfStudy, validation.Required.Error("Field of study is required")),
		validation.Field(&r.From, validation.Required.Error("From date is required")),
	)
}

func (r educationRequest) entry() store.EducationEntry {
	return store.EducationEntry{
		School:       r.School,
		Degree:       r.Degree,
		FieldOfStudy: r.FieldOfStudy,
		From:         r.From,
		To:           r.To,
		Current:      r.Current,
		Description:  r.Description,
	}
}

// fieldErrors flattens validation errors into response entries ordered by
// parameter name. ok is false for errors that are not validation failures.
func fieldErrors(err error) (errs []fieldError, ok bool) {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	params := make([]string, 0, len(verrs))
	for param := range verrs {
		params = append(params, param)
	}
	sort.Strings(params)

	for _, param := range params {
		errs = append(errs, fieldError{Param: param, Msg: verrs[param].Error()})
	}
	return errs, true
}
