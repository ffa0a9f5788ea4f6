package models

import "strings"

type Platform string

const (
	LeetCode   Platform = "leetcode"
	GFG        Platform = "gfg"
	HackerRank Platform = "hackerrank"
	Codeforces Platform = "codeforces"
	CodeChef   Platform = "codechef"
)

// Platforms is the fixed display and load order of dashboard entries.
var Platforms = []Platform{LeetCode, GFG, HackerRank, Codeforces, CodeChef}

var platformTitles = map[Platform]string{
	LeetCode:   "LeetCode",
	GFG:        "GeeksforGeeks",
	HackerRank: "HackerRank",
	Codeforces: "Codeforces",
	CodeChef:   "CodeChef",
}

func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	_, ok := platformTitles[p]
	return p, ok
}

func (p Platform) Valid() bool {
	_, ok := platformTitles[p]
	return ok
}

func (p Platform) Title() string {
	if t, ok := platformTitles[p]; ok {
		return t
	}
	return string(p)
}

// Initial is the avatar letter shown on tabs and cards.
func (p Platform) Initial() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1]))
}
