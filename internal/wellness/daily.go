package wellness

import "time"

var affirmations = []string{
	"You are stronger than you know 💪",
	"Every small step forward is progress 🌱",
	"You deserve kindness, especially from yourself 💝",
	"Your feelings are valid and temporary 🌈",
	"You've survived 100% of your bad days 🌟",
	"It's okay to rest and recharge 🔋",
	"You are worthy of love and respect 💖",
	"Today is a new opportunity to grow 🌸",
	"Your presence makes a difference 🦋",
	"You are not alone in this journey 🤝",
	"Healing is not linear, be patient with yourself 🌊",
	"You have the power to write your story 📖",
	"Every breath is a new beginning 🌬️",
	"You are exactly where you need to be 🧭",
	"Your best is enough, always 🌺",
}

// Quote is a wisdom quote with attribution.
type Quote struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

var wisdomQuotes = []Quote{
	{Quote: "The only way out is through.", Author: "Robert Frost"},
	{Quote: "You are not your thoughts.", Author: "Eckhart Tolle"},
	{Quote: "This too shall pass.", Author: "Persian Proverb"},
	{Quote: "Be yourself; everyone else is already taken.", Author: "Oscar Wilde"},
	{Quote: "The wound is the place where the Light enters you.", Author: "Rumi"},
	{Quote: "What we resist, persists.", Author: "Carl Jung"},
	{Quote: "The present moment is all we ever have.", Author: "Thich Nhat Hanh"},
	{Quote: "Happiness is not by chance, but by choice.", Author: "Jim Rohn"},
}

// DailyAffirmation returns the affirmation for the given day. Selection
// rotates with the day of year so everyone sees the same one each day.
func DailyAffirmation(now time.Time) string {
	return affirmations[now.YearDay()%len(affirmations)]
}

// DailyQuote returns the wisdom quote for the given day.
func DailyQuote(now time.Time) Quote {
	return wisdomQuotes[now.YearDay()%len(wisdomQuotes)]
}
