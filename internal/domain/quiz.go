package domain

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty controls the species pool and the number of offered choices
type Difficulty string

const (
	DifficultyBeginner Difficulty = "beginner"
	DifficultyNormal   Difficulty = "normal"
)

// ParseDifficulty converts a request value into a Difficulty.
func ParseDifficulty(value string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(value))); d {
	case DifficultyBeginner, DifficultyNormal:
		return d, nil
	case "":
		return DifficultyNormal, nil
	default:
		return "", NewInvalidInputError(fmt.Sprintf("unknown difficulty: %s", value))
	}
}

// BeginnerOnly reports whether the species pool is restricted to beginner lists.
func (d Difficulty) BeginnerOnly() bool {
	return d == DifficultyBeginner
}

// NumDistractors returns how many wrong choices accompany the correct one.
func (d Difficulty) NumDistractors() int {
	if d == DifficultyBeginner {
		return 2
	}
	return 3
}

// QuizMode is the answering style of a quiz
type QuizMode string

const (
	QuizModeMultipleChoice QuizMode = "multiple_choice"
	QuizModeOpenAnswer     QuizMode = "open_answer"
)

// ParseQuizMode converts a request value into a QuizMode.
func ParseQuizMode(value string) (QuizMode, error) {
	switch m := QuizMode(strings.ToLower(strings.TrimSpace(value))); m {
	case QuizModeMultipleChoice, QuizModeOpenAnswer:
		return m, nil
	case "":
		return QuizModeMultipleChoice, nil
	default:
		return "", NewInvalidModeError(fmt.Sprintf("unknown quiz mode: %s", value))
	}
}

// ChoiceMode selects how distractors are picked
type ChoiceMode string

const (
	ChoiceModeRandom    ChoiceMode = "random"
	ChoiceModeTaxonomic ChoiceMode = "taxonomic"
)

// QuizState is the lifecycle state of a quiz session
type QuizState string

const (
	QuizStateNotStarted QuizState = "not_started"
	QuizStateInProgress QuizState = "in_progress"
	QuizStateScored     QuizState = "scored"
)

// Quiz is a finished, scored quiz. Immutable once persisted.
type Quiz struct {
	ID         string
	UserID     *string
	RegionID   int64
	Difficulty Difficulty
	Mode       QuizMode
	Length     int
	Score      int
	StartedAt  time.Time
	FinishedAt *time.Time
	Answers    []*Answer
}

// Answer is one submitted answer with its frozen correctness flag
type Answer struct {
	ID          string
	QuizID      string
	RecordingID *int64 // nil once the recording has been deleted
	UserAnswer  string
	Correct     bool
}

// CountCorrect returns the number of answers flagged correct.
func CountCorrect(answers []*Answer) int {
	score := 0
	for _, a := range answers {
		if a.Correct {
			score++
		}
	}
	return score
}

// Question is one recording to identify within a session
type Question struct {
	RecordingID    int64          `json:"recording_id"`
	SpeciesID      int64          `json:"species_id"`
	ScientificName string         `json:"scientific_name"`
	Names          LocalizedNames `json:"names"`
	AudioURL       string         `json:"audio_url"`
	Audio          string         `json:"audio"`
	CorrectName    string         `json:"correct_name"`
	Choices        []string       `json:"choices,omitempty"`
}

// Species returns the snapshot of the species taken when the question was built.
func (q *Question) Species() *Species {
	return &Species{ID: q.SpeciesID, ScientificName: q.ScientificName, Names: q.Names}
}

// SubmittedAnswer is an answer recorded in the session before the quiz is scored
type SubmittedAnswer struct {
	RecordingID int64     `json:"recording_id"`
	Answer      string    `json:"answer"`
	Correct     bool      `json:"correct"`
	AnsweredAt  time.Time `json:"answered_at"`
}

// QuizSession is the in-progress state of a quiz, kept in the session store
type QuizSession struct {
	ID         string                     `json:"id"`
	UserID     *string                    `json:"user_id,omitempty"`
	RegionID   int64                      `json:"region_id"`
	Difficulty Difficulty                 `json:"difficulty"`
	Mode       QuizMode                   `json:"mode"`
	Locale     Locale                     `json:"locale"`
	StartedAt  time.Time                  `json:"started_at"`
	Questions  []Question                 `json:"questions"`
	Answers    map[int64]*SubmittedAnswer `json:"-"`
	QuizID     string                     `json:"-"`
}

// State derives the lifecycle state from the session contents.
func (s *QuizSession) State() QuizState {
	switch {
	case s.QuizID != "":
		return QuizStateScored
	case len(s.Questions) == 0:
		return QuizStateNotStarted
	default:
		return QuizStateInProgress
	}
}

// Question returns the question for recordingID, or nil.
func (s *QuizSession) Question(recordingID int64) *Question {
	for i := range s.Questions {
		if s.Questions[i].RecordingID == recordingID {
			return &s.Questions[i]
		}
	}
	return nil
}

// Complete reports whether every question has been answered.
func (s *QuizSession) Complete() bool {
	if len(s.Questions) == 0 {
		return false
	}
	for _, q := range s.Questions {
		if _, ok := s.Answers[q.RecordingID]; !ok {
			return false
		}
	}
	return true
}

// ToQuiz builds the persistable quiz from a complete session.
func (s *QuizSession) ToQuiz(quizID string, finishedAt time.Time) *Quiz {
	quiz := &Quiz{
		ID:         quizID,
		UserID:     s.UserID,
		RegionID:   s.RegionID,
		Difficulty: s.Difficulty,
		Mode:       s.Mode,
		StartedAt:  s.StartedAt,
		FinishedAt: &finishedAt,
	}
	for _, q := range s.Questions {
		submitted, ok := s.Answers[q.RecordingID]
		if !ok {
			continue
		}
		recordingID := q.RecordingID
		quiz.Answers = append(quiz.Answers, &Answer{
			QuizID:      quizID,
			RecordingID: &recordingID,
			UserAnswer:  submitted.Answer,
			Correct:     submitted.Correct,
		})
	}
	quiz.Length = len(quiz.Answers)
	quiz.Score = CountCorrect(quiz.Answers)
	return quiz
}

// AnswerDetail is a persisted answer with the recording and species it refers to
type AnswerDetail struct {
	Answer    *Answer
	Recording *Recording // nil when the recording was deleted
	Species   *Species   // nil when the recording was deleted
}

// QuestionResult is the outcome of one question in a scored quiz
type QuestionResult struct {
	RecordingID *int64 `json:"recording_id"`
	UserAnswer  string `json:"user_answer"`
	CorrectName string `json:"correct_name"`
	Correct     bool   `json:"correct"`
	Audio       string `json:"audio"`
}

// QuizResult is the final outcome of a scored quiz
type QuizResult struct {
	QuizID     string           `json:"quiz_id"`
	RegionID   int64            `json:"region_id"`
	Difficulty Difficulty       `json:"difficulty"`
	Mode       QuizMode         `json:"mode"`
	Score      int              `json:"score"`
	Length     int              `json:"length"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at"`
	Questions  []QuestionResult `json:"questions"`
}

// RescoreReport summarizes a rescore pass
type RescoreReport struct {
	Quizzes         int
	AnswersChanged  int
	FrozenAnswers   int
	QuizzesRescored int
	// StaleResults lists rescored quizzes whose cached result may still show the old score.
	StaleResults []string
}
