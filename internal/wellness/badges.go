package wellness

// Requirement types.
const (
	ReqStreak   = "streak"
	ReqActivity = "activity"
	ReqLevel    = "level"
	ReqSpecial  = "special"
)

// Special badge conditions.
const (
	CondNightSession = "night_session"
	CondEarlySession = "early_session"
	CondWeekend      = "weekend"
)

// Activity stat names.
const (
	StatMeditationMinutes = "meditation_minutes"
	StatJournalEntries    = "journal_entries"
	StatBreathingSessions = "breathing_sessions"
	StatMoodLogs          = "mood_logs"
	StatGratitudeEntries  = "gratitude_entries"
)

// Requirement describes what unlocks a badge.
type Requirement struct {
	Type      string `json:"type"`
	Stat      string `json:"stat,omitempty"`
	Value     int    `json:"value,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// Badge is one earnable achievement.
type Badge struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Desc        string      `json:"desc"`
	Icon        string      `json:"icon"`
	Requirement Requirement `json:"requirement"`
	Points      int         `json:"points"`
}

// Badges is the full achievement table.
var Badges = []Badge{
	{ID: "streak_3", Name: "Consistent", Desc: "3-day streak", Icon: "🔥", Requirement: Requirement{Type: ReqStreak, Value: 3}, Points: 50},
	{ID: "streak_7", Name: "Dedicated", Desc: "7-day streak", Icon: "⭐", Requirement: Requirement{Type: ReqStreak, Value: 7}, Points: 100},
	{ID: "streak_30", Name: "Committed", Desc: "30-day streak", Icon: "🏆", Requirement: Requirement{Type: ReqStreak, Value: 30}, Points: 500},

	{ID: "first_meditation", Name: "Mindful Beginner", Desc: "First meditation", Icon: "🧘", Requirement: Requirement{Type: ReqActivity, Stat: StatMeditationMinutes, Value: 1}, Points: 25},
	{ID: "meditation_master", Name: "Zen Master", Desc: "100 minutes meditation", Icon: "🧘‍♂️", Requirement: Requirement{Type: ReqActivity, Stat: StatMeditationMinutes, Value: 100}, Points: 200},
	{ID: "journal_starter", Name: "Self-Reflector", Desc: "5 journal entries", Icon: "📝", Requirement: Requirement{Type: ReqActivity, Stat: StatJournalEntries, Value: 5}, Points: 75},
	{ID: "gratitude_guru", Name: "Gratitude Guru", Desc: "10 gratitude entries", Icon: "🙏", Requirement: Requirement{Type: ReqActivity, Stat: StatGratitudeEntries, Value: 10}, Points: 100},

	{ID: "mood_tracker", Name: "Mood Tracker", Desc: "Log mood 7 days", Icon: "📊", Requirement: Requirement{Type: ReqActivity, Stat: StatMoodLogs, Value: 7}, Points: 80},

	{ID: "level_5", Name: "Rising Star", Desc: "Reach Level 5", Icon: "🌟", Requirement: Requirement{Type: ReqLevel, Value: 5}, Points: 200},
	{ID: "level_10", Name: "Wellness Warrior", Desc: "Reach Level 10", Icon: "⚔️", Requirement: Requirement{Type: ReqLevel, Value: 10}, Points: 500},

	{ID: "night_owl", Name: "Night Owl", Desc: "Late night session", Icon: "🦉", Requirement: Requirement{Type: ReqSpecial, Condition: CondNightSession}, Points: 30},
	{ID: "early_bird", Name: "Early Bird", Desc: "Morning session before 6 AM", Icon: "🐦", Requirement: Requirement{Type: ReqSpecial, Condition: CondEarlySession}, Points: 30},
	{ID: "weekend_warrior", Name: "Weekend Warrior", Desc: "Weekend activity", Icon: "🎯", Requirement: Requirement{Type: ReqSpecial, Condition: CondWeekend}, Points: 40},
}

func badgeByID(id string) (Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
