package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/stepsync/internal/domain"
)

// TripResponse is the body of GET /trip. Steps are listed separately.
type TripResponse struct {
	ID             int64               `json:"id"`
	Name           string              `json:"name"`
	StartDate      *openapi_types.Date `json:"start_date,omitempty"`
	EndDate        *openapi_types.Date `json:"end_date,omitempty"`
	CoverPhotoPath string              `json:"cover_photo_path"`
	StepCount      int                 `json:"step_count"`
}

// StepResponse is one step as returned by the API.
type StepResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Location     LocationResponse  `json:"location"`
	StartTime    time.Time         `json:"start_time"`
	CreationTime string            `json:"creation_time"`
	TimezoneID   string            `json:"timezone_id"`
	Photos       []string          `json:"photos"`
	Videos       []string          `json:"videos"`
	Comments     []CommentResponse `json:"comments"`
}

// LocationResponse is a step's place.
type LocationResponse struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Name    string  `json:"name"`
	Country string  `json:"country"`
}

// CommentResponse is a follower comment.
type CommentResponse struct {
	ID       string           `json:"id"`
	Text     string           `json:"text"`
	Date     time.Time        `json:"date"`
	Follower FollowerResponse `json:"follower"`
}

// FollowerResponse is a comment author.
type FollowerResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// TrackPointResponse is one tracked location.
type TrackPointResponse struct {
	Lat  float64   `json:"lat"`
	Lon  float64   `json:"lon"`
	Time time.Time `json:"time"`
}

// UploadRequest is the body of POST /trip/steps/{stepID}/upload.
type UploadRequest struct {
	LocationID *int64 `json:"location_id"`
}

// UploadResponse confirms an accepted upload.
type UploadResponse struct {
	Status     string `json:"status"`
	StepID     string `json:"step_id"`
	LocationID int64  `json:"location_id"`
}

// GetTrip handles GET /trip.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.Trip(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, r, http.StatusOK, tripToResponse(trip))
}

// ListSteps handles GET /trip/steps.
func (s *Server) ListSteps(w http.ResponseWriter, r *http.Request) {
	steps, err := s.trips.Steps(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "trip not found")
		return
	}
	out := make([]StepResponse, len(steps))
	for i, st := range steps {
		out[i] = stepToResponse(st)
	}
	writeJSON(w, r, http.StatusOK, out)
}

// GetStep handles GET /trip/steps/{stepID}.
func (s *Server) GetStep(w http.ResponseWriter, r *http.Request) {
	step, err := s.trips.Step(r.Context(), chi.URLParam(r, "stepID"))
	if err != nil {
		writeServiceError(w, r, err, "step not found")
		return
	}
	writeJSON(w, r, http.StatusOK, stepToResponse(step))
}

// ListLocations handles GET /locations.
func (s *Server) ListLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := s.trips.Locations(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "locations not found")
		return
	}
	out := make([]TrackPointResponse, len(locs))
	for i, l := range locs {
		out[i] = TrackPointResponse{Lat: l.Lat, Lon: l.Lon, Time: l.Time}
	}
	writeJSON(w, r, http.StatusOK, out)
}

// UploadStep handles POST /trip/steps/{stepID}/upload.
// The remote call is synchronous; its failure is reported as 502.
func (s *Server) UploadStep(w http.ResponseWriter, r *http.Request) {
	var body UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeJSON(w, r, http.StatusRequestEntityTooLarge, requestBody("request body too large"))
		case errors.Is(err, io.EOF):
			writeJSON(w, r, http.StatusUnprocessableEntity, requestBody("request body is required"))
		default:
			writeJSON(w, r, http.StatusUnprocessableEntity, requestBody("malformed JSON body"))
		}
		return
	}
	if body.LocationID == nil {
		writeJSON(w, r, http.StatusUnprocessableEntity, requestBody("location_id is required"))
		return
	}

	stepID := chi.URLParam(r, "stepID")
	if err := s.trips.UploadStep(r.Context(), stepID, *body.LocationID); err != nil {
		writeServiceError(w, r, err, "step not found")
		return
	}
	writeJSON(w, r, http.StatusOK, UploadResponse{Status: "uploaded", StepID: stepID, LocationID: *body.LocationID})
}

func tripToResponse(t domain.Trip) TripResponse {
	return TripResponse{
		ID:             t.ID,
		Name:           t.Name,
		StartDate:      toDate(t.StartDate),
		EndDate:        toDate(t.EndDate),
		CoverPhotoPath: t.CoverPhotoPath,
		StepCount:      len(t.Steps),
	}
}

func stepToResponse(s domain.Step) StepResponse {
	comments := make([]CommentResponse, len(s.Comments))
	for i, c := range s.Comments {
		comments[i] = CommentResponse{
			ID:   c.ID,
			Text: c.Text,
			Date: c.Date,
			Follower: FollowerResponse{
				UserID:   c.Follower.UserID,
				Username: c.Follower.Username,
				Name:     c.Follower.FullName(),
			},
		}
	}
	return StepResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Location: LocationResponse{
			Lat:     s.Location.Lat,
			Lon:     s.Location.Lon,
			Name:    s.Location.Name,
			Country: s.Location.Country,
		},
		StartTime:    s.StartTime,
		CreationTime: s.CreationTime,
		TimezoneID:   s.TimezoneID,
		Photos:       nonNil(s.Photos),
		Videos:       nonNil(s.Videos),
		Comments:     comments,
	}
}

// toDate converts an optional timestamp to a calendar date; nil stays nil.
func toDate(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: t.UTC()}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
