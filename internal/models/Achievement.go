package models

type Achievement struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Progress    int    `json:"progress"`
	Unlocked    bool   `json:"unlocked"`
}

func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: 1, Title: "Problem Solver", Description: "Solved 100 problems", Icon: "EmojiEvents", Progress: 100, Unlocked: true},
		{ID: 2, Title: "Streak Master", Description: "Maintained a 7-day streak", Icon: "Timer", Progress: 70, Unlocked: false},
	}
}
