package service

import (
	"context"

	"birdsong-quiz/internal/domain"
)

// RescoreQuizzes implements QuizService. Each quiz is rescored in its own transaction;
// answers whose recording no longer exists keep their stored flag. Quizzes whose cached
// result could not be dropped are listed in the report's StaleResults.
func (s *quizService) RescoreQuizzes(ctx context.Context) (*domain.RescoreReport, error) {
	ids, err := s.quizRepo.ListQuizIDs(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list quizzes", err)
	}

	report := &domain.RescoreReport{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		changed, frozen, err := s.rescoreQuiz(ctx, id)
		if err != nil {
			return report, domain.NewInternalError("failed to rescore quiz "+id, err)
		}
		report.Quizzes++
		report.FrozenAnswers += frozen
		report.AnswersChanged += changed
		if changed > 0 {
			report.QuizzesRescored++
			if err := s.resultCache.Invalidate(ctx, id); err != nil {
				report.StaleResults = append(report.StaleResults, id)
			}
		}
	}
	return report, nil
}

func (s *quizService) rescoreQuiz(ctx context.Context, quizID string) (changed, frozen int, err error) {
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		changed, frozen = 0, 0
		details, err := s.quizRepo.ListAnswerDetails(txCtx, quizID)
		if err != nil {
			return err
		}
		score := 0
		for _, d := range details {
			if d.Species == nil {
				frozen++
			} else if correct := IsCorrectAnswer(d.Answer.UserAnswer, d.Species); correct != d.Answer.Correct {
				if err := s.quizRepo.UpdateAnswerCorrectness(txCtx, d.Answer.ID, correct); err != nil {
					return err
				}
				d.Answer.Correct = correct
				changed++
			}
			if d.Answer.Correct {
				score++
			}
		}
		if changed == 0 {
			return nil
		}
		return s.quizRepo.UpdateScore(txCtx, quizID, score)
	})
	return changed, frozen, err
}
