package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mcadept/placement-portal/internal/cache"
	"github.com/mcadept/placement-portal/internal/models"
	"github.com/mcadept/placement-portal/internal/repositories"
	"github.com/mcadept/placement-portal/internal/utils"
)

const (
	leaderboardKeyPattern = "leaderboard:*"
	leaderboardOverallKey = "leaderboard:overall"
	leaderboardTestKeyFmt = "leaderboard:test:%d"
	leaderboardCacheTTL   = 60 * time.Second
)

type leaderboardService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger utils.Logger
}

func NewLeaderboardService(repo repositories.Repository, cacheService cache.CacheService, logger utils.Logger) LeaderboardService {
	return &leaderboardService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

// Leaderboard computes the overall standings plus per-test rankings across
// all published tests. Rankings are recomputed from completed attempts on
// demand and cached briefly; a submission invalidates the cache.
func (s *leaderboardService) Leaderboard(ctx context.Context) (*LeaderboardResponse, error) {
	if cached := s.getCached(ctx, leaderboardOverallKey, &LeaderboardResponse{}); cached != nil {
		return cached.(*LeaderboardResponse), nil
	}

	attempts, err := s.repo.Attempt().GetAllCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed attempts: %w", err)
	}

	response := &LeaderboardResponse{
		OverallRankings: computeOverallRankings(attempts),
		TestRankings:    computeAllTestRankings(attempts),
	}

	s.setCached(ctx, leaderboardOverallKey, response)
	return response, nil
}

// TestRanking computes the standings for a single test.
func (s *leaderboardService) TestRanking(ctx context.Context, testID uint) (*TestRanking, error) {
	key := fmt.Sprintf(leaderboardTestKeyFmt, testID)
	if cached := s.getCached(ctx, key, &TestRanking{}); cached != nil {
		return cached.(*TestRanking), nil
	}

	test, err := s.repo.Test().GetByID(ctx, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	attempts, err := s.repo.Attempt().GetCompletedByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed attempts: %w", err)
	}

	ranking := &TestRanking{
		TestID:   testID,
		TestName: test.Name,
		Entries:  rankTestAttempts(attempts),
	}

	s.setCached(ctx, key, ranking)
	return ranking, nil
}

// Invalidate drops all cached rankings.
func (s *leaderboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, leaderboardKeyPattern); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate leaderboard cache", "error", err)
	}
}

func (s *leaderboardService) getCached(ctx context.Context, key string, dest interface{}) interface{} {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Get(ctx, key, dest); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "leaderboard cache read failed", "key", key, "error", err)
		}
		return nil
	}
	return dest
}

func (s *leaderboardService) setCached(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, leaderboardCacheTTL); err != nil {
		s.logger.WarnContext(ctx, "leaderboard cache write failed", "key", key, "error", err)
	}
}

// bestAttempts reduces completed attempts to each student's best attempt on
// a test: highest mark wins, and among equal marks the earliest completion
// stands. Attempts arrive ordered by completed_at ascending, so the first
// attempt with a strictly higher mark replaces the current best.
func bestAttempts(attempts []*models.Attempt) map[string]*models.Attempt {
	best := make(map[string]*models.Attempt)
	for _, a := range attempts {
		current, ok := best[a.StudentID]
		if !ok || a.Mark > current.Mark {
			best[a.StudentID] = a
		}
	}
	return best
}

// rankTestAttempts turns a test's completed attempts into ranked entries.
// Ordering is mark descending, then earlier completion, then student ID as
// the final stable tie-break. Equal marks share a rank and the next distinct
// mark skips past them: marks 20, 20, 10, 5 rank as 1, 1, 3, 4.
func rankTestAttempts(attempts []*models.Attempt) []TestRankingEntry {
	best := bestAttempts(attempts)

	entries := make([]TestRankingEntry, 0, len(best))
	for _, a := range best {
		entry := TestRankingEntry{
			StudentID:     a.StudentID,
			Mark:          a.Mark,
			Percentage:    a.Percentage,
			AttemptNumber: a.AttemptNumber,
			CompletedAt:   a.CompletedAt,
		}
		if a.Student.ID != "" {
			entry.StudentName = a.Student.FullName
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Mark != entries[j].Mark {
			return entries[i].Mark > entries[j].Mark
		}
		ci, cj := entries[i].CompletedAt, entries[j].CompletedAt
		if ci != nil && cj != nil && !ci.Equal(*cj) {
			return ci.Before(*cj)
		}
		return entries[i].StudentID < entries[j].StudentID
	})

	for i := range entries {
		if i > 0 && entries[i].Mark == entries[i-1].Mark {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}

	return entries
}

func computeAllTestRankings(attempts []*models.Attempt) []TestRanking {
	byTest := make(map[uint][]*models.Attempt)
	names := make(map[uint]string)
	order := make([]uint, 0)
	for _, a := range attempts {
		if _, seen := byTest[a.TestID]; !seen {
			order = append(order, a.TestID)
		}
		byTest[a.TestID] = append(byTest[a.TestID], a)
		if a.Test.ID != 0 {
			names[a.TestID] = a.Test.Name
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	rankings := make([]TestRanking, 0, len(order))
	for _, testID := range order {
		rankings = append(rankings, TestRanking{
			TestID:   testID,
			TestName: names[testID],
			Entries:  rankTestAttempts(byTest[testID]),
		})
	}
	return rankings
}

// computeOverallRankings folds each student's best attempt per test into a
// total mark and an average percentage, then ranks by average percentage with
// the same competition-style numbering as the per-test rankings.
func computeOverallRankings(attempts []*models.Attempt) []OverallRankingEntry {
	byTest := make(map[uint][]*models.Attempt)
	for _, a := range attempts {
		byTest[a.TestID] = append(byTest[a.TestID], a)
	}

	type accumulator struct {
		name       string
		totalMark  int
		testsTaken int
		pctSum     float64
	}
	totals := make(map[string]*accumulator)

	for _, testAttempts := range byTest {
		for _, a := range bestAttempts(testAttempts) {
			acc, ok := totals[a.StudentID]
			if !ok {
				acc = &accumulator{}
				totals[a.StudentID] = acc
			}
			if a.Student.ID != "" {
				acc.name = a.Student.FullName
			}
			acc.totalMark += a.Mark
			acc.testsTaken++
			acc.pctSum += a.Percentage
		}
	}

	entries := make([]OverallRankingEntry, 0, len(totals))
	for studentID, acc := range totals {
		entry := OverallRankingEntry{
			StudentID:   studentID,
			StudentName: acc.name,
			TotalMark:   acc.totalMark,
			TestsTaken:  acc.testsTaken,
		}
		if acc.testsTaken > 0 {
			entry.AveragePercentage = acc.pctSum / float64(acc.testsTaken)
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AveragePercentage != entries[j].AveragePercentage {
			return entries[i].AveragePercentage > entries[j].AveragePercentage
		}
		if entries[i].TotalMark != entries[j].TotalMark {
			return entries[i].TotalMark > entries[j].TotalMark
		}
		return entries[i].StudentID < entries[j].StudentID
	})

	for i := range entries {
		if i > 0 && entries[i].AveragePercentage == entries[i-1].AveragePercentage {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}

	return entries
}
