package models

type ViewKind string

const (
	ViewError     ViewKind = "error"
	ViewLoading   ViewKind = "loading"
	ViewEmpty     ViewKind = "empty"
	ViewPopulated ViewKind = "populated"
)

// ViewStateOf maps an entry to exactly one of the four dashboard panels.
// Error wins over loading, loading over data.
func ViewStateOf(s PlatformFetchState) ViewKind {
	switch {
	case s.Error != nil:
		return ViewError
	case s.Status == StatusLoading:
		return ViewLoading
	case s.Stats == nil:
		return ViewEmpty
	default:
		return ViewPopulated
	}
}

// SelectEntry returns the entry for the requested tab, falling back to the
// first entry when the key is unknown.
func SelectEntry(entries []PlatformFetchState, key string) (PlatformFetchState, bool) {
	if len(entries) == 0 {
		return PlatformFetchState{}, false
	}
	if p, ok := ParsePlatform(key); ok {
		for _, e := range entries {
			if e.Name == p {
				return e, true
			}
		}
	}
	return entries[0], true
}
