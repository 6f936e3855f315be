package app

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"practicelog/internal/model"
	"practicelog/internal/repository"
)

type TopicTotal struct {
	Topic   string `json:"topic"`
	Minutes int    `json:"minutes"`
}

type TagShare struct {
	Tag      string `json:"tag"`
	Sessions int    `json:"sessions"`
	Percent  int    `json:"percent"`
}

// DashboardSummary is derived on every request and never stored.
type DashboardSummary struct {
	RangeDays       int          `json:"range_days"`
	Streak          int          `json:"streak"`
	StreakStart     string       `json:"streak_start,omitempty"`
	StreakEnd       string       `json:"streak_end,omitempty"`
	WeeklyMinutes   int          `json:"weekly_minutes"`
	TotalMinutes    int          `json:"total_minutes"`
	TotalSessions   int64        `json:"total_sessions"`
	TopTopics       []TopicTotal `json:"top_topics"`
	TagDistribution []TagShare   `json:"tag_distribution"`
	GeneratedAt     time.Time    `json:"generated_at"`
}

type AnalyticsService struct {
	sessionRepo  *repository.SessionRepository
	summaryCache SummaryCache
	topN         int
	now          func() time.Time
}

func NewAnalyticsService(sessionRepo *repository.SessionRepository, summaryCache SummaryCache, topN int) *AnalyticsService {
	if topN <= 0 {
		topN = 5
	}
	return &AnalyticsService{
		sessionRepo:  sessionRepo,
		summaryCache: summaryCache,
		topN:         topN,
		now:          time.Now,
	}
}

// Summary computes the dashboard metrics over the trailing `days` window
// ending today. Cached copies are served unless a write marked them dirty.
func (s *AnalyticsService) Summary(ctx context.Context, days int) (*DashboardSummary, error) {
	if days <= 0 {
		days = 7
	}

	if s.summaryCache != nil {
		dirty, err := s.summaryCache.IsDirty(ctx)
		if err == nil && !dirty {
			if payload, hit, cacheErr := s.summaryCache.GetSummary(ctx, days); cacheErr == nil && hit {
				var cached DashboardSummary
				if unmarshalErr := json.Unmarshal(payload, &cached); unmarshalErr == nil {
					return &cached, nil
				}
			}
		}
	}

	summary, err := s.compute(days)
	if err != nil {
		return nil, err
	}

	if s.summaryCache != nil {
		if dirty, dirtyErr := s.summaryCache.IsDirty(ctx); dirtyErr == nil && !dirty {
			if payload, marshalErr := json.Marshal(summary); marshalErr == nil {
				_ = s.summaryCache.SetSummary(ctx, days, payload)
			}
		}
	}
	return summary, nil
}

func (s *AnalyticsService) compute(days int) (*DashboardSummary, error) {
	today := s.now()
	todayStr := today.Format(model.DateLayout)
	from := today.AddDate(0, 0, -(days - 1)).Format(model.DateLayout)

	sessions, err := s.sessionRepo.ListInRange(from, todayStr)
	if err != nil {
		return nil, err
	}

	dates, err := s.sessionRepo.DistinctDates(todayStr)
	if err != nil {
		return nil, err
	}

	total, err := s.sessionRepo.Count()
	if err != nil {
		return nil, err
	}

	streak, streakStart, streakEnd := computeStreak(dates, today)

	weekFrom := today.AddDate(0, 0, -6).Format(model.DateLayout)
	weeklyMinutes := 0
	totalMinutes := 0
	for _, session := range sessions {
		totalMinutes += session.DurationMin
		if session.Date >= weekFrom {
			weeklyMinutes += session.DurationMin
		}
	}

	return &DashboardSummary{
		RangeDays:       days,
		Streak:          streak,
		StreakStart:     streakStart,
		StreakEnd:       streakEnd,
		WeeklyMinutes:   weeklyMinutes,
		TotalMinutes:    totalMinutes,
		TotalSessions:   total,
		TopTopics:       topTopics(sessions, s.topN),
		TagDistribution: tagDistribution(sessions),
		GeneratedAt:     today,
	}, nil
}

// computeStreak counts consecutive practice days walking backwards through
// the distinct dates (newest first). The streak is alive only when the most
// recent practice day is today or yesterday.
func computeStreak(dates []string, today time.Time) (int, string, string) {
	if len(dates) == 0 {
		return 0, "", ""
	}

	latest, err := time.Parse(model.DateLayout, dates[0])
	if err != nil {
		return 0, "", ""
	}

	day, err := time.Parse(model.DateLayout, today.Format(model.DateLayout))
	if err != nil {
		return 0, "", ""
	}
	gap := int(day.Sub(latest).Hours() / 24)
	if gap > 1 || gap < 0 {
		return 0, "", ""
	}

	streak := 1
	end := dates[0]
	current := latest
	for _, raw := range dates[1:] {
		next, err := time.Parse(model.DateLayout, raw)
		if err != nil {
			break
		}
		if !current.AddDate(0, 0, -1).Equal(next) {
			break
		}
		streak++
		current = next
	}
	return streak, current.Format(model.DateLayout), end
}

// topTopics sums minutes per topic and returns the n largest, ties broken
// by topic name ascending.
func topTopics(sessions []model.Session, n int) []TopicTotal {
	totals := make(map[string]int)
	for _, session := range sessions {
		totals[session.Topic] += session.DurationMin
	}

	ranked := make([]TopicTotal, 0, len(totals))
	for topic, minutes := range totals {
		ranked = append(ranked, TopicTotal{Topic: topic, Minutes: minutes})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Minutes != ranked[j].Minutes {
			return ranked[i].Minutes > ranked[j].Minutes
		}
		return ranked[i].Topic < ranked[j].Topic
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// tagDistribution counts sessions per tag and normalizes the counts to
// integer percentages that sum to exactly 100. Each count gets its floored
// share and the rounding remainder goes to the largest bucket.
func tagDistribution(sessions []model.Session) []TagShare {
	counts := make(map[string]int)
	for _, session := range sessions {
		for _, tag := range session.Tags {
			counts[tag.Name]++
		}
	}
	if len(counts) == 0 {
		return []TagShare{}
	}

	shares := make([]TagShare, 0, len(counts))
	total := 0
	for tag, count := range counts {
		shares = append(shares, TagShare{Tag: tag, Sessions: count})
		total += count
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Sessions != shares[j].Sessions {
			return shares[i].Sessions > shares[j].Sessions
		}
		return shares[i].Tag < shares[j].Tag
	})

	assigned := 0
	for i := range shares {
		shares[i].Percent = shares[i].Sessions * 100 / total
		assigned += shares[i].Percent
	}
	// Largest bucket is first after sorting.
	shares[0].Percent += 100 - assigned
	return shares
}
