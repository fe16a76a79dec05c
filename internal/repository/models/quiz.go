package models

import (
	"database/sql"
	"time"
)

// Quiz represents a row of the quizzes table.
type Quiz struct {
	ID         string         `db:"ID"`
	UserID     sql.NullString `db:"USER_ID"`
	RegionID   int64          `db:"REGION_ID"`
	Difficulty string         `db:"DIFFICULTY"`
	QuizMode   string         `db:"QUIZ_MODE"`
	QuizLength int            `db:"QUIZ_LENGTH"`
	Score      int            `db:"SCORE"`
	StartedAt  time.Time      `db:"STARTED_AT"`
	FinishedAt sql.NullTime   `db:"FINISHED_AT"`
}

// Answer represents a row of the answers table.
type Answer struct {
	ID          string         `db:"ID"`
	QuizID      string         `db:"QUIZ_ID"`
	RecordingID sql.NullInt64  `db:"RECORDING_ID"`
	Position    int            `db:"POSITION"`
	UserAnswer  sql.NullString `db:"USER_ANSWER"`
	Correct     int            `db:"CORRECT"`
}

// AnswerDetail is an answer left joined with its recording and species.
type AnswerDetail struct {
	ID             string         `db:"ID"`
	QuizID         string         `db:"QUIZ_ID"`
	RecordingID    sql.NullInt64  `db:"RECORDING_ID"`
	UserAnswer     sql.NullString `db:"USER_ANSWER"`
	Correct        int            `db:"CORRECT"`
	SpeciesID      sql.NullInt64  `db:"SPECIES_ID"`
	Audio          sql.NullString `db:"AUDIO"`
	AudioURL       sql.NullString `db:"AUDIO_URL"`
	URL            sql.NullString `db:"URL"`
	ScientificName sql.NullString `db:"SCIENTIFIC_NAME"`
	NameEN         sql.NullString `db:"NAME_EN"`
	NameFI         sql.NullString `db:"NAME_FI"`
}
