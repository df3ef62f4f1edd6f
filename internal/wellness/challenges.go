package wellness

// Challenge cadence.
const (
	ChallengeDaily  = "daily"
	ChallengeWeekly = "weekly"
)

// Challenge is one completable wellness challenge.
type Challenge struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Desc   string `json:"description"`
	Type   string `json:"type"`
	Icon   string `json:"icon"`
	Points int    `json:"points"`
}

// Challenges is the full challenge table.
var Challenges = []Challenge{
	{ID: "daily_meditation", Name: "5-Minute Peace", Desc: "Meditate for 5 minutes", Type: ChallengeDaily, Points: 20, Icon: "🧘"},
	{ID: "daily_gratitude", Name: "Grateful Heart", Desc: "Write 3 things you're grateful for", Type: ChallengeDaily, Points: 15, Icon: "💝"},
	{ID: "daily_breathing", Name: "Breathe Deep", Desc: "Complete 3 breathing exercises", Type: ChallengeDaily, Points: 15, Icon: "🌬️"},
	{ID: "daily_mood", Name: "Mood Check", Desc: "Log your mood 3 times", Type: ChallengeDaily, Points: 10, Icon: "😊"},
	{ID: "daily_journal", Name: "Daily Reflection", Desc: "Write a journal entry", Type: ChallengeDaily, Points: 25, Icon: "📔"},

	{ID: "weekly_streak", Name: "Consistency King", Desc: "Maintain a 7-day streak", Type: ChallengeWeekly, Points: 100, Icon: "👑"},
	{ID: "weekly_meditation", Name: "Meditation Week", Desc: "30 minutes total meditation", Type: ChallengeWeekly, Points: 80, Icon: "🧘‍♀️"},
	{ID: "weekly_wellness", Name: "Wellness Champion", Desc: "Complete 10 wellness activities", Type: ChallengeWeekly, Points: 120, Icon: "🏅"},
}

func challengeByID(id string) (Challenge, bool) {
	for _, c := range Challenges {
		if c.ID == id {
			return c, true
		}
	}
	return Challenge{}, false
}
