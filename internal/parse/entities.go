package parse

import (
	"fmt"

	"github.com/pkordes/stepsync/internal/domain"
)

// Entity names used in error messages.
const (
	EntityTrip         = "Trip"
	EntityStep         = "Step"
	EntityStepLocation = "StepLocation"
	EntityLocation     = "Location"
	EntityFollower     = "Follower"
	EntityStepComment  = "StepComment"
)

// Location decodes a tracked position from locations.json.
func Location(f Fields) (domain.Location, error) {
	var (
		l   domain.Location
		err error
	)
	if l.Lat, err = f.Float("lat"); err != nil {
		return domain.Location{}, fmt.Errorf("parse.Location: %w", err)
	}
	if l.Lon, err = f.Float("lon"); err != nil {
		return domain.Location{}, fmt.Errorf("parse.Location: %w", err)
	}
	if l.Time, err = f.Time("time"); err != nil {
		return domain.Location{}, fmt.Errorf("parse.Location: %w", err)
	}
	return l, nil
}

// StepLocation decodes a step's place. The export calls the country "detail".
func StepLocation(f Fields) (domain.StepLocation, error) {
	var (
		l   domain.StepLocation
		err error
	)
	if l.Lat, err = f.Float("lat"); err != nil {
		return domain.StepLocation{}, fmt.Errorf("parse.StepLocation: %w", err)
	}
	if l.Lon, err = f.Float("lon"); err != nil {
		return domain.StepLocation{}, fmt.Errorf("parse.StepLocation: %w", err)
	}
	if l.Name, err = f.String("name"); err != nil {
		return domain.StepLocation{}, fmt.Errorf("parse.StepLocation: %w", err)
	}
	if l.Country, err = f.String("detail"); err != nil {
		return domain.StepLocation{}, fmt.Errorf("parse.StepLocation: %w", err)
	}
	return l, nil
}

// Follower decodes a commenting user.
func Follower(f Fields) (domain.Follower, error) {
	var (
		u   domain.Follower
		err error
	)
	if u.UserID, err = f.String("id"); err != nil {
		return domain.Follower{}, fmt.Errorf("parse.Follower: %w", err)
	}
	if u.Username, err = f.String("username"); err != nil {
		return domain.Follower{}, fmt.Errorf("parse.Follower: %w", err)
	}
	if u.FirstName, err = f.String("first_name"); err != nil {
		return domain.Follower{}, fmt.Errorf("parse.Follower: %w", err)
	}
	if u.LastName, err = f.String("last_name"); err != nil {
		return domain.Follower{}, fmt.Errorf("parse.Follower: %w", err)
	}
	return u, nil
}

// StepComment decodes a comment together with its author snapshot.
func StepComment(f Fields) (domain.StepComment, error) {
	var (
		c   domain.StepComment
		err error
	)
	if c.ID, err = f.String("id"); err != nil {
		return domain.StepComment{}, fmt.Errorf("parse.StepComment: %w", err)
	}
	if c.Text, err = f.String("text"); err != nil {
		return domain.StepComment{}, fmt.Errorf("parse.StepComment: %w", err)
	}
	if c.Date, err = f.Time("creation_time"); err != nil {
		return domain.StepComment{}, fmt.Errorf("parse.StepComment: %w", err)
	}
	user, err := f.Object("user", EntityFollower)
	if err != nil {
		return domain.StepComment{}, fmt.Errorf("parse.StepComment: %w", err)
	}
	if c.Follower, err = Follower(user); err != nil {
		return domain.StepComment{}, fmt.Errorf("parse.StepComment: %w", err)
	}
	return c, nil
}

// Step decodes one entry of a trip's all_steps list.
//
// The name is the "name" value when non-empty, otherwise "display_name".
// A step with neither is rejected with a MissingFieldError for "name".
// Photos and Videos are left empty; media is attached by the loader.
func Step(f Fields) (domain.Step, error) {
	s := domain.Step{Photos: []string{}, Videos: []string{}}
	var err error

	if s.ID, err = f.String("id"); err != nil {
		return domain.Step{}, fmt.Errorf("parse.Step: %w", err)
	}
	if s.Name, err = stepName(f); err != nil {
		return domain.Step{}, fmt.Errorf("parse.Step: %w", err)
	}
	if s.Description, err = f.String("description"); err != nil {
		return domain.Step{}, fmt.Errorf("parse.Step: %w", err)
	}
	loc, err := f.Object("location", EntityStepLocation)
	if err != nil {
		return domain.Step{}, fmt.Errorf("parse.Step: %w", err)
	}
	if s.Location, err = StepLocation(loc); err != nil {
		return domain.Step{}, fmt.Errorf("parse.Step: %w", err)
	}
	if s.StartTime, err = f.Time("start_time"); err != nil {
		return domain.Step{}, fmt.Errorf("parse.Step: %w", err)
	}
	if s.CreationTime, err = f.String("creation_time"); err != nil {
		return domain.Step{}, fmt.Errorf("parse.Step: %w", err)
	}
	if s.TimezoneID, err = f.String("timezone_id"); err != nil {
		return domain.Step{}, fmt.Errorf("parse.Step: %w", err)
	}
	if s.Comments, err = OptionalList(f, "comments", EntityStepComment, StepComment); err != nil {
		return domain.Step{}, fmt.Errorf("parse.Step: %w", err)
	}
	return s, nil
}

func stepName(f Fields) (string, error) {
	for _, key := range []string{"name", "display_name"} {
		name, err := f.OptionalString(key)
		if err != nil {
			return "", err
		}
		if name != "" {
			return name, nil
		}
	}
	return "", &domain.MissingFieldError{Entity: f.Entity(), Key: "name"}
}

// Trip decodes trip.json. Steps keep the order of all_steps. ID is left 0.
func Trip(f Fields) (domain.Trip, error) {
	var (
		t   domain.Trip
		err error
	)
	if t.Name, err = f.String("name"); err != nil {
		return domain.Trip{}, fmt.Errorf("parse.Trip: %w", err)
	}
	if t.StartDate, err = f.OptionalTime("start_date"); err != nil {
		return domain.Trip{}, fmt.Errorf("parse.Trip: %w", err)
	}
	if t.EndDate, err = f.OptionalTime("end_date"); err != nil {
		return domain.Trip{}, fmt.Errorf("parse.Trip: %w", err)
	}
	if t.CoverPhotoPath, err = f.String("cover_photo_path"); err != nil {
		return domain.Trip{}, fmt.Errorf("parse.Trip: %w", err)
	}
	if t.Steps, err = List(f, "all_steps", EntityStep, Step); err != nil {
		return domain.Trip{}, fmt.Errorf("parse.Trip: %w", err)
	}
	return t, nil
}
