package domain

import "context"

// TransactionManager runs fn inside a database transaction carried by ctx
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RegionRepository defines the interface for region persistence
type RegionRepository interface {
	// ListWithObservations returns distinct regions having at least one observation,
	// with up to two ancestors loaded into Parent.
	ListWithObservations(ctx context.Context) ([]*Region, error)

	// GetByID returns nil, nil when the region does not exist.
	GetByID(ctx context.Context, id int64) (*Region, error)

	// GetByCode returns nil, nil when the region does not exist.
	GetByCode(ctx context.Context, code string) (*Region, error)

	// Upsert inserts or updates the region keyed by code and sets its ID.
	Upsert(ctx context.Context, region *Region) error
}

// SpeciesRepository defines the interface for species persistence
type SpeciesRepository interface {
	// ListForRegion returns distinct species observed in the region that have at least one recording.
	ListForRegion(ctx context.Context, regionID int64) ([]*Species, error)

	// ListBeginnerForRegion additionally restricts to species on a beginner list scoped to the region.
	ListBeginnerForRegion(ctx context.Context, regionID int64) ([]*Species, error)

	// ListObservedInRegions returns distinct species observed in any of the given regions.
	ListObservedInRegions(ctx context.Context, regionIDs []int64) ([]*Species, error)

	ListAll(ctx context.Context) ([]*Species, error)

	// GetByCode returns nil, nil when the species does not exist.
	GetByCode(ctx context.Context, code string) (*Species, error)

	// Upsert inserts or updates the species keyed by scientific name and sets its ID.
	Upsert(ctx context.Context, species *Species) error
}

// RecordingRepository defines the interface for recording persistence
type RecordingRepository interface {
	ListBySpeciesIDs(ctx context.Context, speciesIDs []int64) ([]*Recording, error)

	// GetByID returns nil, nil when the recording does not exist.
	GetByID(ctx context.Context, id int64) (*Recording, error)

	CountBySpecies(ctx context.Context, speciesID int64) (int, error)

	// Save inserts the recording, ignoring rows whose id already exists.
	Save(ctx context.Context, recording *Recording) error
}

// ObservationRepository defines the interface for observation persistence
type ObservationRepository interface {
	// Upsert records the (species, region) pair if missing.
	Upsert(ctx context.Context, speciesID, regionID int64) error

	// GetByID returns nil, nil when the observation does not exist.
	GetByID(ctx context.Context, id int64) (*Observation, error)

	// ListUnannotated returns observations in the region without an occurrence type
	// that userID has not annotated yet, with their species.
	ListUnannotated(ctx context.Context, regionID int64, userID string) ([]*Observation, error)

	// SaveAnnotation returns false when the user already annotated the observation.
	SaveAnnotation(ctx context.Context, annotation *ObservationAnnotation) (bool, error)

	SetOccurrenceType(ctx context.Context, observationID int64, occurrenceType OccurrenceType) error
}

// SpeciesListRepository defines the interface for species list persistence
type SpeciesListRepository interface {
	// Save creates the list, or replaces the members of the existing list with the same owner and name.
	Save(ctx context.Context, list *SpeciesList) error
}

// QuizRepository defines the interface for scored quiz persistence
type QuizRepository interface {
	// SaveQuiz inserts the quiz and all of its answers.
	SaveQuiz(ctx context.Context, quiz *Quiz) error

	// GetQuizByID returns nil, nil when the quiz does not exist.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)

	// ListAnswerDetails returns the quiz answers in insertion order with recording and species.
	ListAnswerDetails(ctx context.Context, quizID string) ([]*AnswerDetail, error)

	ListQuizIDs(ctx context.Context) ([]string, error)

	UpdateAnswerCorrectness(ctx context.Context, answerID string, correct bool) error

	UpdateScore(ctx context.Context, quizID string, score int) error
}
