package dto

import (
	"time"

	"birdsong-quiz/internal/domain"
)

// RegionResponse is a region a quiz can be played in
type RegionResponse struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
}

// SpeciesResponse is a species eligible for a quiz
type SpeciesResponse struct {
	ID             int64  `json:"id"`
	ScientificName string `json:"scientific_name"`
	Name           string `json:"name"`
	Code           string `json:"code,omitempty"`
}

// StartQuizRequest starts a new quiz session.
// Difficulty, mode and locale fall back to normal, multiple_choice and en.
type StartQuizRequest struct {
	RegionID   int64  `json:"region_id" validate:"required,gt=0"`
	Difficulty string `json:"difficulty" validate:"omitempty,max=20"`
	Mode       string `json:"mode" validate:"omitempty,max=20"`
	Length     int    `json:"length" validate:"gte=0,lte=100"`
	Locale     string `json:"locale" validate:"omitempty,max=10"`
}

// QuestionResponse is one recording to identify. The correct name is never included.
type QuestionResponse struct {
	RecordingID int64    `json:"recording_id"`
	AudioURL    string   `json:"audio_url"`
	Audio       string   `json:"audio,omitempty"`
	Choices     []string `json:"choices,omitempty"`
}

// StartQuizResponse describes a started quiz session
type StartQuizResponse struct {
	SessionID  string             `json:"session_id"`
	RegionID   int64              `json:"region_id"`
	Difficulty string             `json:"difficulty"`
	Mode       string             `json:"mode"`
	Locale     string             `json:"locale"`
	StartedAt  time.Time          `json:"started_at"`
	Questions  []QuestionResponse `json:"questions"`
}

// SubmitAnswerRequest answers one question of a session
type SubmitAnswerRequest struct {
	RecordingID int64  `json:"recording_id" validate:"required,gt=0"`
	Answer      string `json:"answer" validate:"max=200"`
}

// SubmitAnswerResponse is the feedback for a submitted answer.
// Result is present on the answer that completed the quiz.
type SubmitAnswerResponse struct {
	RecordingID int64              `json:"recording_id"`
	Correct     bool               `json:"correct"`
	CorrectName string             `json:"correct_name"`
	Finished    bool               `json:"finished"`
	QuizID      string             `json:"quiz_id,omitempty"`
	Result      *domain.QuizResult `json:"result,omitempty"`
}

// ObservationResponse is an observation awaiting an occurrence type annotation
type ObservationResponse struct {
	ID             int64  `json:"id"`
	SpeciesID      int64  `json:"species_id"`
	ScientificName string `json:"scientific_name"`
	Name           string `json:"name"`
}

// AnnotateObservationRequest proposes an occurrence type for an observation
type AnnotateObservationRequest struct {
	OccurrenceType string `json:"occurrence_type" validate:"required,max=30"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewRegionResponses converts regions for the given locale.
func NewRegionResponses(regions []*domain.Region, locale domain.Locale) []RegionResponse {
	out := make([]RegionResponse, 0, len(regions))
	for _, r := range regions {
		out = append(out, RegionResponse{ID: r.ID, Code: r.Code, DisplayName: r.DisplayName(locale)})
	}
	return out
}

// NewSpeciesResponses converts species for the given locale.
func NewSpeciesResponses(species []*domain.Species, locale domain.Locale) []SpeciesResponse {
	out := make([]SpeciesResponse, 0, len(species))
	for _, sp := range species {
		out = append(out, SpeciesResponse{
			ID:             sp.ID,
			ScientificName: sp.ScientificName,
			Name:           sp.DisplayName(locale),
			Code:           sp.Code,
		})
	}
	return out
}

// NewStartQuizResponse converts a freshly started session.
func NewStartQuizResponse(session *domain.QuizSession) *StartQuizResponse {
	resp := &StartQuizResponse{
		SessionID:  session.ID,
		RegionID:   session.RegionID,
		Difficulty: string(session.Difficulty),
		Mode:       string(session.Mode),
		Locale:     string(session.Locale),
		StartedAt:  session.StartedAt,
		Questions:  make([]QuestionResponse, 0, len(session.Questions)),
	}
	for _, q := range session.Questions {
		resp.Questions = append(resp.Questions, QuestionResponse{
			RecordingID: q.RecordingID,
			AudioURL:    q.AudioURL,
			Audio:       q.Audio,
			Choices:     q.Choices,
		})
	}
	return resp
}

// NewObservationResponses converts observations for the given locale.
func NewObservationResponses(observations []*domain.Observation, locale domain.Locale) []ObservationResponse {
	out := make([]ObservationResponse, 0, len(observations))
	for _, o := range observations {
		resp := ObservationResponse{ID: o.ID, SpeciesID: o.SpeciesID}
		if o.Species != nil {
			resp.ScientificName = o.Species.ScientificName
			resp.Name = o.Species.DisplayName(locale)
		}
		out = append(out, resp)
	}
	return out
}
