package models

// PlatformStats is the collaborator API response body. It is treated as an
// immutable snapshot once stored in an entry.
type PlatformStats struct {
	TotalSolved   int      `json:"total_solved"`
	EasySolved    int      `json:"easy_solved"`
	MediumSolved  int      `json:"medium_solved"`
	HardSolved    int      `json:"hard_solved"`
	Ranking       *int     `json:"ranking,omitempty"`
	CodingScore   *float64 `json:"coding_score,omitempty"`
	ContestRating *int     `json:"contest_rating,omitempty"`
	ProfileURL    string   `json:"profile_url"`
}

func (s *PlatformStats) Valid() bool {
	if s == nil {
		return false
	}
	if s.TotalSolved < 0 || s.EasySolved < 0 || s.MediumSolved < 0 || s.HardSolved < 0 {
		return false
	}
	if s.Ranking != nil && *s.Ranking < 0 {
		return false
	}
	if s.CodingScore != nil && *s.CodingScore < 0 {
		return false
	}
	return true
}
