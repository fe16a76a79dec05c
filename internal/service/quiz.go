package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"birdsong-quiz/internal/config"
	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/util"
)

// StartQuizInput carries the parameters of a new quiz
type StartQuizInput struct {
	UserID     *string
	RegionID   int64
	Difficulty domain.Difficulty
	Mode       domain.QuizMode
	Length     int // 0 selects the configured default
	Locale     domain.Locale
}

// AnswerOutcome is the immediate feedback for a submitted answer.
// Result is set only on the submission that scored the quiz.
type AnswerOutcome struct {
	RecordingID int64
	Correct     bool
	CorrectName string
	Finished    bool
	QuizID      string
	Result      *domain.QuizResult
}

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	StartQuiz(ctx context.Context, in StartQuizInput) (*domain.QuizSession, error)
	SubmitAnswer(ctx context.Context, sessionID string, recordingID int64, answer string) (*AnswerOutcome, error)
	GetQuizResult(ctx context.Context, quizID string, locale domain.Locale) (*domain.QuizResult, error)

	// RescoreQuizzes re-derives answer correctness of every scored quiz from current species names.
	RescoreQuizzes(ctx context.Context) (*domain.RescoreReport, error)
}

// quizService implements QuizService
type quizService struct {
	selector    SpeciesSelector
	sampler     RecordingSampler
	quizRepo    domain.QuizRepository
	txManager   domain.TransactionManager
	sessions    SessionStore
	resultCache QuizResultCache
	cfg         config.QuizConfig

	now     func() time.Time
	newRand func() *rand.Rand
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	selector SpeciesSelector,
	sampler RecordingSampler,
	quizRepo domain.QuizRepository,
	txManager domain.TransactionManager,
	sessions SessionStore,
	resultCache QuizResultCache,
	cfg config.QuizConfig,
) QuizService {
	return &quizService{
		selector:    selector,
		sampler:     sampler,
		quizRepo:    quizRepo,
		txManager:   txManager,
		sessions:    sessions,
		resultCache: resultCache,
		cfg:         cfg,
		now:         time.Now,
		newRand:     util.NewRand,
	}
}

// StartQuiz implements QuizService
func (s *quizService) StartQuiz(ctx context.Context, in StartQuizInput) (*domain.QuizSession, error) {
	difficulty, err := domain.ParseDifficulty(string(in.Difficulty))
	if err != nil {
		return nil, err
	}
	mode, err := domain.ParseQuizMode(string(in.Mode))
	if err != nil {
		return nil, err
	}
	locale, err := domain.ParseLocale(string(in.Locale))
	if err != nil {
		return nil, err
	}
	length, err := s.resolveLength(in.Length)
	if err != nil {
		return nil, err
	}

	pool, err := s.selector.SpeciesForRegion(ctx, in.RegionID, difficulty.BeginnerOnly())
	if err != nil {
		return nil, err
	}
	if len(pool) < length {
		return nil, domain.NewInsufficientDataError(
			fmt.Sprintf("region %d has %d eligible species, quiz needs %d", in.RegionID, len(pool), length),
			len(pool), length)
	}

	rng := s.newRand()
	picked := util.Sample(rng, pool, length)
	recordings, err := s.sampler.SampleRecordings(ctx, rng, picked)
	if err != nil {
		return nil, err
	}

	questions := make([]domain.Question, 0, length)
	for i, sp := range picked {
		rec := recordings[i]
		q := domain.Question{
			RecordingID:    rec.ID,
			SpeciesID:      sp.ID,
			ScientificName: sp.ScientificName,
			Names:          sp.Names,
			AudioURL:       rec.AudioURL,
			Audio:          rec.Audio,
			CorrectName:    sp.DisplayName(locale),
		}
		if mode == domain.QuizModeMultipleChoice {
			q.Choices, err = BuildChoices(rng, sp, pool, difficulty.NumDistractors(), domain.ChoiceModeRandom, locale)
			if err != nil {
				return nil, err
			}
		}
		questions = append(questions, q)
	}

	session := &domain.QuizSession{
		ID:         util.NewULID(),
		UserID:     in.UserID,
		RegionID:   in.RegionID,
		Difficulty: difficulty,
		Mode:       mode,
		Locale:     locale,
		StartedAt:  s.now().UTC(),
		Questions:  questions,
		Answers:    map[int64]*domain.SubmittedAnswer{},
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *quizService) resolveLength(length int) (int, error) {
	if length == 0 {
		length = s.cfg.DefaultLength
	}
	if length < 1 {
		return 0, domain.NewInvalidInputError("quiz length must be at least 1")
	}
	if s.cfg.MaxLength > 0 && length > s.cfg.MaxLength {
		return 0, domain.NewInvalidInputError(fmt.Sprintf("quiz length must not exceed %d", s.cfg.MaxLength))
	}
	return length, nil
}

// SubmitAnswer implements QuizService
func (s *quizService) SubmitAnswer(ctx context.Context, sessionID string, recordingID int64, answer string) (*AnswerOutcome, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State() == domain.QuizStateScored {
		return nil, domain.NewQuizStateError("quiz has already been scored").WithContext("quiz_id", session.QuizID)
	}
	question := session.Question(recordingID)
	if question == nil {
		return nil, domain.NewRecordingNotFoundError(recordingID)
	}
	if prior, answered := session.Answers[recordingID]; answered {
		if !session.Complete() {
			return nil, domain.NewQuizStateError("recording has already been answered").WithContext("recording_id", recordingID)
		}
		// Complete but unscored: persisting the quiz failed earlier. The stored answer stands.
		return s.finish(ctx, session, &AnswerOutcome{
			RecordingID: recordingID,
			Correct:     prior.Correct,
			CorrectName: question.CorrectName,
		})
	}

	correct, err := checkAnswer(session.Mode, question, answer)
	if err != nil {
		return nil, err
	}
	stored, err := s.sessions.RecordAnswer(ctx, sessionID, &domain.SubmittedAnswer{
		RecordingID: recordingID,
		Answer:      answer,
		Correct:     correct,
		AnsweredAt:  s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if !stored {
		return nil, domain.NewQuizStateError("recording has already been answered").WithContext("recording_id", recordingID)
	}

	outcome := &AnswerOutcome{
		RecordingID: recordingID,
		Correct:     correct,
		CorrectName: question.CorrectName,
	}

	// Other answers may have landed since the first load.
	session, err = s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Complete() {
		return outcome, nil
	}
	return s.finish(ctx, session, outcome)
}

func checkAnswer(mode domain.QuizMode, question *domain.Question, answer string) (bool, error) {
	if mode == domain.QuizModeOpenAnswer {
		return IsCorrectAnswer(answer, question.Species()), nil
	}
	chosen := strings.TrimSpace(answer)
	if chosen == "" {
		return false, nil
	}
	for _, choice := range question.Choices {
		if choice == chosen {
			return chosen == question.CorrectName, nil
		}
	}
	return false, domain.NewInvalidInputError(fmt.Sprintf("answer %q is not one of the offered choices", chosen)).
		WithContext("recording_id", question.RecordingID)
}

// finish scores a complete session exactly once. The quiz takes the session id, so a
// retry after a failed save and a concurrent submission all refer to the same quiz.
func (s *quizService) finish(ctx context.Context, session *domain.QuizSession, outcome *AnswerOutcome) (*AnswerOutcome, error) {
	quizID := session.ID
	claimed, err := s.sessions.ClaimScoring(ctx, session.ID, quizID)
	if err != nil {
		return nil, err
	}
	outcome.Finished = true
	outcome.QuizID = quizID
	if !claimed {
		// A concurrent submission is scoring the quiz.
		return outcome, nil
	}

	quiz := session.ToQuiz(quizID, s.now().UTC())
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.quizRepo.SaveQuiz(txCtx, quiz)
	})
	if err != nil {
		if releaseErr := s.sessions.ReleaseScoring(ctx, session.ID); releaseErr != nil {
			return nil, domain.NewInternalError("failed to save quiz and release scoring", fmt.Errorf("%w; %w", err, releaseErr))
		}
		return nil, domain.NewInternalError("failed to save quiz", err)
	}

	session.QuizID = quizID
	result := sessionResult(session, quiz)
	_ = s.resultCache.Put(ctx, session.Locale, result)

	outcome.Result = result
	return outcome, nil
}

func sessionResult(session *domain.QuizSession, quiz *domain.Quiz) *domain.QuizResult {
	result := &domain.QuizResult{
		QuizID:     quiz.ID,
		RegionID:   quiz.RegionID,
		Difficulty: quiz.Difficulty,
		Mode:       quiz.Mode,
		Score:      quiz.Score,
		Length:     quiz.Length,
		StartedAt:  quiz.StartedAt,
		FinishedAt: quiz.FinishedAt,
		Questions:  make([]domain.QuestionResult, 0, len(session.Questions)),
	}
	for _, q := range session.Questions {
		submitted := session.Answers[q.RecordingID]
		if submitted == nil {
			continue
		}
		recordingID := q.RecordingID
		result.Questions = append(result.Questions, domain.QuestionResult{
			RecordingID: &recordingID,
			UserAnswer:  submitted.Answer,
			CorrectName: q.CorrectName,
			Correct:     submitted.Correct,
			Audio:       q.Audio,
		})
	}
	return result
}

// GetQuizResult implements QuizService
func (s *quizService) GetQuizResult(ctx context.Context, quizID string, locale domain.Locale) (*domain.QuizResult, error) {
	locale, err := domain.ParseLocale(string(locale))
	if err != nil {
		return nil, err
	}
	if cached, err := s.resultCache.Get(ctx, quizID, locale); err == nil {
		return cached, nil
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	details, err := s.quizRepo.ListAnswerDetails(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list quiz answers", err)
	}

	result := &domain.QuizResult{
		QuizID:     quiz.ID,
		RegionID:   quiz.RegionID,
		Difficulty: quiz.Difficulty,
		Mode:       quiz.Mode,
		Score:      quiz.Score,
		Length:     quiz.Length,
		StartedAt:  quiz.StartedAt,
		FinishedAt: quiz.FinishedAt,
		Questions:  make([]domain.QuestionResult, 0, len(details)),
	}
	for _, d := range details {
		qr := domain.QuestionResult{
			RecordingID: d.Answer.RecordingID,
			UserAnswer:  d.Answer.UserAnswer,
			Correct:     d.Answer.Correct,
		}
		if d.Species != nil {
			qr.CorrectName = d.Species.DisplayName(locale)
		}
		if d.Recording != nil {
			qr.Audio = d.Recording.Audio
		}
		result.Questions = append(result.Questions, qr)
	}

	_ = s.resultCache.Put(ctx, locale, result)
	return result, nil
}
