// internal/app/features/profiles/types.go
package profiles

import (
	"net/url"
	"strings"

	profilestore "github.com/dalemusser/courtside/internal/app/store/profiles"
	"github.com/dalemusser/courtside/internal/app/system/htmlsanitize"
	"github.com/dalemusser/courtside/internal/app/system/inputval"
	"github.com/dalemusser/courtside/internal/domain/models"
)

// createInput is the POST /profiles body.
type createInput struct {
	Name              string   `json:"name" validate:"required,min=2,max=50" label:"Name"`
	Age               int      `json:"age" validate:"min=13,max=100" label:"Age"`
	Bio               string   `json:"bio" validate:"max=200" label:"Bio"`
	ProfileImage      *string  `json:"profile_image" validate:"max=500" label:"Profile image"`
	PrimaryPosition   string   `json:"primary_position" validate:"required" label:"Primary position"`
	SecondaryPosition *string  `json:"secondary_position" label:"Secondary position"`
	ExperienceLevel   string   `json:"experience_level" validate:"oneof=beginner intermediate advanced expert" label:"Experience level"`
	Location          string   `json:"location" validate:"required,min=2,max=100" label:"Location"`
	PreferredCourts   []string `json:"preferred_courts" validate:"required,dive,oneof=beach indoor grass" label:"Preferred courts"`
}

// searchResponse is the GET /profiles body.
type searchResponse struct {
	Profiles []models.Profile `json:"profiles"`
}

// updateInput is the PATCH /profiles/me body. Absent fields are left as is.
type updateInput struct {
	Name              *string  `json:"name" validate:"min=2,max=50" label:"Name"`
	Age               *int     `json:"age" validate:"min=13,max=100" label:"Age"`
	Bio               *string  `json:"bio" validate:"max=200" label:"Bio"`
	ProfileImage      *string  `json:"profile_image" validate:"max=500" label:"Profile image"`
	PrimaryPosition   *string  `json:"primary_position" label:"Primary position"`
	SecondaryPosition *string  `json:"secondary_position" label:"Secondary position"`
	ExperienceLevel   *string  `json:"experience_level" validate:"oneof=beginner intermediate advanced expert" label:"Experience level"`
	Location          *string  `json:"location" validate:"min=2,max=100" label:"Location"`
	PreferredCourts   []string `json:"preferred_courts" validate:"dive,oneof=beach indoor grass" label:"Preferred courts"`
}

func (in *createInput) sanitize() {
	in.Name = htmlsanitize.Text(in.Name)
	in.Bio = htmlsanitize.Text(in.Bio)
	in.Location = htmlsanitize.Text(in.Location)
	in.ProfileImage = trimPtr(in.ProfileImage)
	in.SecondaryPosition = trimPtr(in.SecondaryPosition)
}

func (in *updateInput) sanitize() {
	in.Name = htmlsanitize.TextPtr(in.Name)
	in.Bio = htmlsanitize.TextPtr(in.Bio)
	in.Location = htmlsanitize.TextPtr(in.Location)
	in.ProfileImage = trimPtr(in.ProfileImage)
	in.PrimaryPosition = trimPtr(in.PrimaryPosition)
	in.SecondaryPosition = trimPtr(in.SecondaryPosition)
}

func (in createInput) validate() inputval.Result {
	res := inputval.Validate(in)
	checkPosition(&res, "primary_position", "Primary position", &in.PrimaryPosition)
	checkPosition(&res, "secondary_position", "Secondary position", in.SecondaryPosition)
	checkImage(&res, in.ProfileImage)
	return res
}

func (in updateInput) validate() inputval.Result {
	res := inputval.Validate(in)
	checkPosition(&res, "primary_position", "Primary position", in.PrimaryPosition)
	checkPosition(&res, "secondary_position", "Secondary position", in.SecondaryPosition)
	checkImage(&res, in.ProfileImage)
	if in.PrimaryPosition != nil && *in.PrimaryPosition == "" {
		res.Add("primary_position", "required", "Primary position is required.")
	}
	if in.ExperienceLevel != nil && *in.ExperienceLevel == "" {
		res.Add("experience_level", "required", "Experience level is required.")
	}
	if in.PreferredCourts != nil && len(in.PreferredCourts) == 0 {
		res.Add("preferred_courts", "required", "Preferred courts is required.")
	}
	return res
}

func (in updateInput) toUpdate() profilestore.Update {
	return profilestore.Update{
		Name:              in.Name,
		Age:               in.Age,
		Bio:               in.Bio,
		ProfileImage:      in.ProfileImage,
		PrimaryPosition:   in.PrimaryPosition,
		SecondaryPosition: in.SecondaryPosition,
		ExperienceLevel:   in.ExperienceLevel,
		Location:          in.Location,
		PreferredCourts:   in.PreferredCourts,
	}
}

// checkPosition rejects positions outside models.Positions. Positions
// contain spaces, so the oneof tag cannot list them.
func checkPosition(res *inputval.Result, field, label string, p *string) {
	if p == nil || *p == "" {
		return
	}
	for _, pos := range models.Positions {
		if *p == pos {
			return
		}
	}
	res.Add(field, "oneof", label+" must be one of: "+strings.Join(models.Positions, ", ")+".")
}

// checkImage requires an absolute http(s) URL when an image is set.
func checkImage(res *inputval.Result, img *string) {
	if img == nil || *img == "" {
		return
	}
	u, err := url.Parse(*img)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		res.Add("profile_image", "url", "Profile image must be an http or https URL.")
	}
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	return &s
}
