// Package wellness tracks per-session engagement: points, levels, daily
// check-in streaks, activity stats, and badge unlocks.
package wellness

import (
	"errors"
	"sync"
	"time"
)

const pointsPerLevel = 100

// MoodEntry is one logged mood check-in.
type MoodEntry struct {
	Mood string    `json:"mood"`
	Note string    `json:"note,omitempty"`
	At   time.Time `json:"at"`
}

// Tracker accumulates wellness progress for a single session.
type Tracker struct {
	mu          sync.Mutex
	points      int
	level       int
	streak      int
	lastCheckin time.Time // date of most recent daily check-in, zero if never
	badges      []string
	challenges  []string
	stats       map[string]int
	moods       []MoodEntry
}

// NewTracker returns an empty tracker at level 1.
func NewTracker() *Tracker {
	return &Tracker{
		level: 1,
		stats: map[string]int{
			StatMeditationMinutes: 0,
			StatJournalEntries:    0,
			StatBreathingSessions: 0,
			StatMoodLogs:          0,
			StatGratitudeEntries:  0,
		},
	}
}

// CheckInResult reports the outcome of a daily mood check-in.
type CheckInResult struct {
	StreakExtended bool    `json:"streak_extended"`
	Streak         int     `json:"streak"`
	PointsAwarded  int     `json:"points_awarded"`
	Level          int     `json:"level"`
	NewBadges      []Badge `json:"new_badges,omitempty"`
}

// CheckIn logs a mood entry and updates the daily streak. A repeat
// check-in on the same calendar day logs the mood but leaves the streak
// untouched; a consecutive day extends it; a gap resets it to 1.
func (t *Tracker) CheckIn(now time.Time, mood, note string) CheckInResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	before := t.points
	t.moods = append(t.moods, MoodEntry{Mood: mood, Note: note, At: now})
	t.stats[StatMoodLogs]++

	res := CheckInResult{}
	today := dateOf(now)
	switch {
	case t.lastCheckin.IsZero():
		t.streak = 1
		t.lastCheckin = today
		t.addPointsLocked(10)
		res.StreakExtended = true
	case today.Equal(t.lastCheckin):
		// Already checked in today.
	case today.Sub(t.lastCheckin) == 24*time.Hour:
		t.streak++
		t.lastCheckin = today
		t.addPointsLocked(10)
		res.StreakExtended = true
	default:
		t.streak = 1
		t.lastCheckin = today
		res.StreakExtended = true
	}

	unlocked := t.checkBadgesLocked(now)
	res.Streak = t.streak
	res.PointsAwarded = t.points - before
	res.Level = t.level
	res.NewBadges = unlocked
	return res
}

// RecordActivity bumps an activity stat and awards any badges that the
// new value unlocks. Unknown stats are ignored.
func (t *Tracker) RecordActivity(now time.Time, stat string, delta int) []Badge {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.stats[stat]; !ok {
		return nil
	}
	t.stats[stat] += delta
	return t.checkBadgesLocked(now)
}

// AddPoints awards points directly.
func (t *Tracker) AddPoints(now time.Time, points int) []Badge {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.addPointsLocked(points)
	return t.checkBadgesLocked(now)
}

// Challenge completion errors.
var (
	ErrUnknownChallenge   = errors.New("wellness: unknown challenge")
	ErrChallengeCompleted = errors.New("wellness: challenge already completed")
)

// ChallengeResult reports the outcome of completing a challenge.
type ChallengeResult struct {
	Challenge     Challenge `json:"challenge"`
	PointsAwarded int       `json:"points_awarded"`
	Level         int       `json:"level"`
	NewBadges     []Badge   `json:"new_badges,omitempty"`
}

// CompleteChallenge marks a challenge done and awards its points. Each
// challenge completes at most once per session.
func (t *Tracker) CompleteChallenge(now time.Time, id string) (ChallengeResult, error) {
	ch, ok := challengeByID(id)
	if !ok {
		return ChallengeResult{}, ErrUnknownChallenge
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, done := range t.challenges {
		if done == id {
			return ChallengeResult{}, ErrChallengeCompleted
		}
	}

	before := t.points
	t.challenges = append(t.challenges, id)
	t.addPointsLocked(ch.Points)
	unlocked := t.checkBadgesLocked(now)

	return ChallengeResult{
		Challenge:     ch,
		PointsAwarded: t.points - before,
		Level:         t.level,
		NewBadges:     unlocked,
	}, nil
}

func (t *Tracker) addPointsLocked(points int) {
	t.points += points
	if lvl := t.points/pointsPerLevel + 1; lvl > t.level {
		t.level = lvl
	}
}

// checkBadgesLocked evaluates the badge table against current state and
// awards everything newly satisfied, including badges unlocked by the
// points just awarded for an earlier badge in the same pass.
func (t *Tracker) checkBadgesLocked(now time.Time) []Badge {
	var unlocked []Badge
	for _, b := range Badges {
		if t.hasBadgeLocked(b.ID) {
			continue
		}
		req := b.Requirement
		ok := false
		switch req.Type {
		case ReqStreak:
			ok = t.streak >= req.Value
		case ReqLevel:
			ok = t.level >= req.Value
		case ReqActivity:
			ok = t.stats[req.Stat] >= req.Value
		case ReqSpecial:
			ok = specialCondition(req.Condition, now)
		}
		if ok {
			t.badges = append(t.badges, b.ID)
			t.addPointsLocked(b.Points)
			unlocked = append(unlocked, b)
		}
	}
	return unlocked
}

func (t *Tracker) hasBadgeLocked(id string) bool {
	for _, b := range t.badges {
		if b == id {
			return true
		}
	}
	return false
}

func specialCondition(condition string, now time.Time) bool {
	switch condition {
	case CondNightSession:
		return now.Hour() >= 22 || now.Hour() <= 2
	case CondEarlySession:
		return now.Hour() < 6
	case CondWeekend:
		wd := now.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	}
	return false
}

// Snapshot is a read-only view of tracker state.
type Snapshot struct {
	Points     int            `json:"points"`
	Level      int            `json:"level"`
	Streak     int            `json:"streak"`
	Badges     []Badge        `json:"badges"`
	Challenges []string       `json:"challenges_completed"`
	Stats      map[string]int `json:"stats"`
	Moods      []MoodEntry    `json:"moods"`
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	badges := make([]Badge, 0, len(t.badges))
	for _, id := range t.badges {
		if b, ok := badgeByID(id); ok {
			badges = append(badges, b)
		}
	}
	stats := make(map[string]int, len(t.stats))
	for k, v := range t.stats {
		stats[k] = v
	}
	moods := make([]MoodEntry, len(t.moods))
	copy(moods, t.moods)
	challenges := make([]string, len(t.challenges))
	copy(challenges, t.challenges)

	return Snapshot{
		Points:     t.points,
		Level:      t.level,
		Streak:     t.streak,
		Badges:     badges,
		Challenges: challenges,
		Stats:      stats,
		Moods:      moods,
	}
}

// dateOf truncates to the UTC calendar day; streaks count UTC dates
// regardless of the caller's zone.
func dateOf(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
