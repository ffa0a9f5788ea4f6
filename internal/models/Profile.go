package models

// ProfileStorageKey is the fixed key the onboarding blob lives under.
const ProfileStorageKey = "codingProfile"

// Profile is the persisted onboarding blob: a display name plus one username
// per platform. It is always written and read as a whole.
type Profile struct {
	Name       string `json:"name,omitempty" form:"name" validate:"required|maxLen:100" message:"required:Please enter your name"`
	LeetCode   string `json:"leetcode,omitempty" form:"leetcode" validate:"maxLen:64"`
	GFG        string `json:"gfg,omitempty" form:"gfg" validate:"maxLen:64"`
	HackerRank string `json:"hackerrank,omitempty" form:"hackerrank" validate:"maxLen:64"`
	Codeforces string `json:"codeforces,omitempty" form:"codeforces" validate:"maxLen:64"`
	CodeChef   string `json:"codechef,omitempty" form:"codechef" validate:"maxLen:64"`
}

func (p *Profile) Username(platform Platform) string {
	if p == nil {
		return ""
	}
	switch platform {
	case LeetCode:
		return p.LeetCode
	case GFG:
		return p.GFG
	case HackerRank:
		return p.HackerRank
	case Codeforces:
		return p.Codeforces
	case CodeChef:
		return p.CodeChef
	}
	return ""
}

func (p *Profile) SetUsername(platform Platform, username string) {
	switch platform {
	case LeetCode:
		p.LeetCode = username
	case GFG:
		p.GFG = username
	case HackerRank:
		p.HackerRank = username
	case Codeforces:
		p.Codeforces = username
	case CodeChef:
		p.CodeChef = username
	}
}

// Subscriptions returns one subscription per platform in the fixed order;
// platforms missing from the blob get an empty username.
func (p *Profile) Subscriptions() []Subscription {
	subs := make([]Subscription, 0, len(Platforms))
	for _, platform := range Platforms {
		subs = append(subs, Subscription{Platform: platform, Username: p.Username(platform)})
	}
	return subs
}

type Subscription struct {
	Platform Platform `json:"platform"`
	Username string   `json:"username"`
}
