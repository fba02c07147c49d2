package service

import (
	"context"
	"encoding/json"
	"time"

	"quizforge/internal/cache"
	"quizforge/internal/config"
	"quizforge/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// streakLookback bounds how far back answer history is loaded. A streak
	// longer than this is reported at the cap.
	streakLookback = 365 * 24 * time.Hour

	streakCacheTTL = time.Minute
)

// StreakSummary is the consistency report for one user. A day is active from
// the first answer; DailyGoal is informational and does not gate the streak.
type StreakSummary struct {
	CurrentStreakDays int `json:"current_streak_days"`
	TodayAnswersCount int `json:"today_answers_count"`
	DailyGoal         int `json:"daily_goal"`
}

// StreakService computes daily practice streaks. All timestamps are bucketed
// into calendar days in one fixed configured timezone, so the streak does not
// shift with the client's locale.
type StreakService struct {
	answerRepo   domain.AnswerRepository
	cacheService domain.Cache
	location     *time.Location
	dailyGoal    int
	logger       *zap.Logger

	group singleflight.Group

	// now is swapped out in tests to pin the calendar.
	now func() time.Time
}

// NewStreakService creates a StreakService. The configured timezone must be a
// valid IANA name.
func NewStreakService(
	answerRepo domain.AnswerRepository,
	cacheService domain.Cache,
	streakConfig config.StreakConfig,
	logger *zap.Logger,
) (*StreakService, error) {
	location, err := time.LoadLocation(streakConfig.Timezone)
	if err != nil {
		return nil, domain.NewInternalError("invalid streak timezone: "+streakConfig.Timezone, err)
	}
	return &StreakService{
		answerRepo:   answerRepo,
		cacheService: cacheService,
		location:     location,
		dailyGoal:    streakConfig.DailyGoal,
		logger:       logger,
		now:          time.Now,
	}, nil
}

// GetStreak returns the user's current streak summary. Results are cached
// briefly; concurrent misses for the same user collapse into one computation.
func (s *StreakService) GetStreak(ctx context.Context, userID string) (*StreakSummary, error) {
	key := cache.StreakKey(userID)
	if cached, err := s.cacheService.Get(ctx, key); err == nil {
		var summary StreakSummary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			return &summary, nil
		}
		s.logger.Warn("dropping undecodable streak cache entry", zap.String("key", key))
	}

	result, err, _ := s.group.Do(userID, func() (interface{}, error) {
		summary, err := s.computeStreak(ctx, userID)
		if err != nil {
			return nil, err
		}
		if payload, err := json.Marshal(summary); err == nil {
			if err := s.cacheService.Set(ctx, key, string(payload), streakCacheTTL); err != nil {
				s.logger.Warn("failed to cache streak summary", zap.Error(err))
			}
		}
		return summary, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*StreakSummary), nil
}

// computeStreak buckets the answer history into calendar days and walks
// backwards from today. The walk may start at yesterday: a streak is still
// alive before the user has answered anything today.
func (s *StreakService) computeStreak(ctx context.Context, userID string) (*StreakSummary, error) {
	now := s.now().In(s.location)
	times, err := s.answerRepo.AnswerTimesSince(ctx, userID, now.Add(-streakLookback))
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, t := range times {
		counts[dayKey(t.In(s.location))]++
	}

	today := truncateToDay(now)
	todayCount := counts[dayKey(today)]

	start := today
	if counts[dayKey(start)] == 0 {
		start = start.AddDate(0, 0, -1)
	}

	streak := 0
	for day := start; counts[dayKey(day)] > 0; day = day.AddDate(0, 0, -1) {
		streak++
	}

	return &StreakSummary{
		CurrentStreakDays: streak,
		TodayAnswersCount: todayCount,
		DailyGoal:         s.dailyGoal,
	}, nil
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
