package models

import "time"

type EventKind int

const (
	EventStarted EventKind = iota
	EventSucceeded
	EventFailed
	EventUnsupported
)

// FetchEvent is one transition of a single entry. Seq is the request sequence
// the event belongs to.
type FetchEvent struct {
	Kind     EventKind
	Platform Platform
	Seq      uint64
	Stats    *PlatformStats
	Err      *FetchError
	At       time.Time
}

// ReduceEntries applies ev to the entry matching ev.Platform and returns a new
// list; the input is never modified. The bool reports whether ev was applied.
//
// A Started event must carry a sequence newer than the entry's. Settling
// events apply when their sequence is not older than the entry's, so a late
// response from a superseded request is dropped.
func ReduceEntries(entries []PlatformFetchState, ev FetchEvent) ([]PlatformFetchState, bool) {
	idx := -1
	for i := range entries {
		if entries[i].Name == ev.Platform {
			idx = i
			break
		}
	}
	if idx < 0 {
		return entries, false
	}

	cur := entries[idx]
	if ev.Seq < cur.Seq || (ev.Kind == EventStarted && ev.Seq == cur.Seq) {
		return entries, false
	}

	next := cur
	next.Seq = ev.Seq
	switch ev.Kind {
	case EventStarted:
		next.Status = StatusLoading
		next.Error = nil
	case EventSucceeded:
		at := ev.At
		next.Status = StatusSuccess
		next.Stats = ev.Stats
		next.Error = nil
		next.LastUpdated = &at
	case EventFailed:
		next.Status = StatusError
		next.Stats = nil
		next.Error = ev.Err
		if next.Error == nil {
			next.Error = NewFetchError(ErrUnknown, nil)
		}
	case EventUnsupported:
		next.Status = StatusUnsupported
		next.Stats = nil
		next.Error = nil
	default:
		return entries, false
	}

	out := make([]PlatformFetchState, len(entries))
	copy(out, entries)
	out[idx] = next
	return out, true
}
