package service

import (
	"context"
	"fmt"
	"log"

	"tutor-service/internal/event"
	"tutor-service/internal/models"
	"tutor-service/internal/repository"
	"tutor-service/internal/workflow"
)

// EventSink is the slice of the event publisher the learning service needs.
// A nil sink disables event publishing.
type EventSink interface {
	Publish(eventType string, payload interface{}) error
}

type LearningService struct {
	Orchestrator *workflow.Orchestrator
	Sessions     *repository.SessionStateRepository
	Turns        *repository.TurnRepository
	Summaries    *repository.SummaryRepository
	Users        *repository.UserRepository
	Publisher    EventSink

	// MaxRecentSummaries bounds how much loop history a new session is
	// hydrated with.
	MaxRecentSummaries int
}

func NewLearningService(
	orch *workflow.Orchestrator,
	sessions *repository.SessionStateRepository,
	turns *repository.TurnRepository,
	summaries *repository.SummaryRepository,
	users *repository.UserRepository,
	publisher EventSink,
) *LearningService {
	return &LearningService{
		Orchestrator:       orch,
		Sessions:           sessions,
		Turns:              turns,
		Summaries:          summaries,
		Users:              users,
		Publisher:          publisher,
		MaxRecentSummaries: 5,
	}
}

// StartSession opens a fresh learning session for the user, hydrated with
// their profile and their recent loop summaries. An existing session for the
// same user is replaced.
func (s *LearningService) StartSession(ctx context.Context, userID string, chapterID int) (*workflow.SessionState, error) {
	userType := models.UserTypeBeginner
	userLevel := models.UserLevelMedium

	user, err := s.Users.FindByID(ctx, userID)
	if err == nil {
		userType = user.UserType
		userLevel = user.UserLevel
		if chapterID < 1 {
			chapterID = user.CurrentChapter
		}
	} else {
		log.Printf("user lookup failed for %s, using defaults: %v", userID, err)
	}

	state := workflow.NewSessionState(userID, chapterID, userType, userLevel)

	if summaries, err := s.Summaries.LoadRecent(ctx, userID, s.MaxRecentSummaries); err == nil && len(summaries) > 0 {
		// LoadRecent returns newest first; the state window is oldest first.
		for i := len(summaries) - 1; i >= 0; i-- {
			state.RecentSummaries = append(state.RecentSummaries, summaries[i])
		}
	}

	if err := s.Sessions.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.publish(event.TypeSessionStarted, map[string]interface{}{
		"user_id":    userID,
		"chapter_id": state.ChapterID,
		"loop_id":    state.LoopID,
	})

	return state, nil
}

// GetSession returns the active session state for the user.
func (s *LearningService) GetSession(ctx context.Context, userID string) (*workflow.SessionState, error) {
	return s.Sessions.Load(ctx, userID)
}

// ProcessMessage feeds one user message through the learning loop. Turns are
// persisted to Mongo as they happen and the updated working state goes back
// to Redis, so the session survives restarts mid-loop.
func (s *LearningService) ProcessMessage(ctx context.Context, userID, message string) (*workflow.TurnResult, *workflow.SessionState, error) {
	state, err := s.Sessions.Load(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.Orchestrator.HandleMessage(ctx, state, message)
	if err != nil {
		return nil, nil, err
	}

	for i := range result.Turns {
		if terr := s.Turns.SaveTurn(ctx, &result.Turns[i]); terr != nil {
			log.Printf("failed to persist turn for user %s: %v", userID, terr)
		}
	}

	if result.LoopCompleted && result.Summary != nil {
		if serr := s.Summaries.Save(ctx, result.Summary); serr != nil {
			log.Printf("failed to persist loop summary for user %s: %v", userID, serr)
		}
		s.publish(event.TypeLoopCompleted, map[string]interface{}{
			"user_id":    userID,
			"loop_id":    result.Summary.LoopID,
			"chapter_id": result.Summary.ChapterID,
			"decision":   result.Summary.Decision,
			"mean_score": result.Summary.MeanScore,
		})
		if result.Summary.Decision == workflow.DecisionAdvance {
			if uerr := s.Users.UpdateChapter(ctx, userID, state.ChapterID); uerr != nil {
				log.Printf("failed to update chapter for user %s: %v", userID, uerr)
			}
			s.publish(event.TypeChapterAdvance, map[string]interface{}{
				"user_id":    userID,
				"chapter_id": state.ChapterID,
			})
		}
	}

	if result.Evaluation != nil {
		s.publish(event.TypeQuizEvaluated, map[string]interface{}{
			"user_id": userID,
			"score":   result.Evaluation.Score,
			"correct": result.Evaluation.Correct,
		})
	}

	if err := s.Sessions.Save(ctx, state); err != nil {
		return nil, nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return result, state, nil
}

// EndSession closes the session. An unfinished loop is summarized with a
// repeat decision before the working state is dropped.
func (s *LearningService) EndSession(ctx context.Context, userID string) (*models.LoopSummary, error) {
	state, err := s.Sessions.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	var summary *models.LoopSummary
	if len(state.CurrentTurns) > 0 {
		done := state.CompleteLoop(workflow.DecisionRepeat, 0)
		if serr := s.Summaries.Save(ctx, &done); serr != nil {
			log.Printf("failed to persist final summary for user %s: %v", userID, serr)
		}
		summary = &done
	}

	if err := s.Sessions.Delete(ctx, userID); err != nil {
		return nil, err
	}

	s.publish(event.TypeSessionEnded, map[string]interface{}{
		"user_id": userID,
	})

	return summary, nil
}

// GetProgress reports where the user stands: current chapter, stage, and the
// recent loop history.
func (s *LearningService) GetProgress(ctx context.Context, userID string) (map[string]interface{}, error) {
	progress := map[string]interface{}{
		"user_id": userID,
	}

	state, err := s.Sessions.Load(ctx, userID)
	if err == nil {
		progress["active_session"] = true
		progress["chapter_id"] = state.ChapterID
		progress["ui_mode"] = workflow.UIModeFor(state.Stage)
		progress["current_loop_turns"] = len(state.CurrentTurns)
	} else if err == repository.ErrSessionNotFound {
		progress["active_session"] = false
	} else {
		return nil, err
	}

	summaries, err := s.Summaries.LoadRecent(ctx, userID, 10)
	if err != nil {
		return nil, err
	}
	progress["recent_loops"] = summaries

	return progress, nil
}

func (s *LearningService) publish(eventType string, payload interface{}) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(eventType, payload); err != nil {
		log.Printf("failed to publish %s event: %v", eventType, err)
	}
}
