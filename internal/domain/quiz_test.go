package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     Difficulty
		wantCode ErrorCode
	}{
		{"beginner", "beginner", DifficultyBeginner, ""},
		{"normal uppercase", " NORMAL ", DifficultyNormal, ""},
		{"empty defaults to normal", "", DifficultyNormal, ""},
		{"unknown", "expert", "", CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDifficulty(tt.input)
			if tt.wantCode != "" {
				assert.True(t, HasCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDifficulty_NumDistractors(t *testing.T) {
	assert.Equal(t, 2, DifficultyBeginner.NumDistractors())
	assert.Equal(t, 3, DifficultyNormal.NumDistractors())
	assert.True(t, DifficultyBeginner.BeginnerOnly())
	assert.False(t, DifficultyNormal.BeginnerOnly())
}

func TestParseQuizMode(t *testing.T) {
	mode, err := ParseQuizMode("open_answer")
	require.NoError(t, err)
	assert.Equal(t, QuizModeOpenAnswer, mode)

	mode, err = ParseQuizMode("")
	require.NoError(t, err)
	assert.Equal(t, QuizModeMultipleChoice, mode)

	_, err = ParseQuizMode("true_false")
	assert.True(t, HasCode(err, CodeInvalidMode))
}

func newTestSession() *QuizSession {
	return &QuizSession{
		ID:         "session1",
		RegionID:   7,
		Difficulty: DifficultyNormal,
		Mode:       QuizModeOpenAnswer,
		Locale:     LocaleEN,
		StartedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Questions: []Question{
			{RecordingID: 100, SpeciesID: 1, CorrectName: "Great Tit"},
			{RecordingID: 200, SpeciesID: 2, CorrectName: "Blue Tit"},
		},
		Answers: map[int64]*SubmittedAnswer{},
	}
}

func TestQuizSession_StateTransitions(t *testing.T) {
	empty := &QuizSession{}
	assert.Equal(t, QuizStateNotStarted, empty.State())

	s := newTestSession()
	assert.Equal(t, QuizStateInProgress, s.State())
	assert.False(t, s.Complete())

	s.Answers[100] = &SubmittedAnswer{RecordingID: 100, Answer: "great tit", Correct: true}
	assert.False(t, s.Complete())
	s.Answers[200] = &SubmittedAnswer{RecordingID: 200, Answer: "coal tit", Correct: false}
	assert.True(t, s.Complete())

	s.QuizID = "quiz1"
	assert.Equal(t, QuizStateScored, s.State())
}

func TestQuizSession_Question(t *testing.T) {
	s := newTestSession()
	q := s.Question(200)
	require.NotNil(t, q)
	assert.Equal(t, "Blue Tit", q.CorrectName)
	assert.Nil(t, s.Question(999))
}

func TestQuizSession_ToQuiz(t *testing.T) {
	s := newTestSession()
	userID := "user1"
	s.UserID = &userID
	s.Answers[100] = &SubmittedAnswer{RecordingID: 100, Answer: "great tit", Correct: true}
	s.Answers[200] = &SubmittedAnswer{RecordingID: 200, Answer: "coal tit", Correct: false}

	finished := s.StartedAt.Add(3 * time.Minute)
	quiz := s.ToQuiz("quiz1", finished)

	assert.Equal(t, "quiz1", quiz.ID)
	assert.Equal(t, &userID, quiz.UserID)
	assert.Equal(t, int64(7), quiz.RegionID)
	assert.Equal(t, 2, quiz.Length)
	assert.Equal(t, 1, quiz.Score)
	assert.Equal(t, s.StartedAt, quiz.StartedAt)
	require.NotNil(t, quiz.FinishedAt)
	assert.Equal(t, finished, *quiz.FinishedAt)
	require.Len(t, quiz.Answers, 2)
	assert.Equal(t, int64(100), *quiz.Answers[0].RecordingID)
	assert.Equal(t, "great tit", quiz.Answers[0].UserAnswer)
	assert.True(t, quiz.Answers[0].Correct)
	assert.Equal(t, "quiz1", quiz.Answers[1].QuizID)
}

func TestCountCorrect(t *testing.T) {
	answers := []*Answer{{Correct: true}, {Correct: false}, {Correct: true}}
	assert.Equal(t, 2, CountCorrect(answers))
	assert.Equal(t, 0, CountCorrect(nil))
}
