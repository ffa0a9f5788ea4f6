package models

import "time"

type Status string

const (
	StatusIdle        Status = "idle"
	StatusLoading     Status = "loading"
	StatusSuccess     Status = "success"
	StatusError       Status = "error"
	StatusUnsupported Status = "unsupported"
)

type ErrorKind string

const (
	ErrMissingUsername    ErrorKind = "missing_username"
	ErrNotFound           ErrorKind = "not_found"
	ErrTimeout            ErrorKind = "timeout"
	ErrNetwork            ErrorKind = "network"
	ErrBackendUnavailable ErrorKind = "backend_unavailable"
	ErrRemote             ErrorKind = "remote"
	ErrUnknown            ErrorKind = "unknown"
)

var errorMessages = map[ErrorKind]string{
	ErrMissingUsername:    "Please enter a username for this platform",
	ErrNotFound:           "User not found on this platform",
	ErrTimeout:            "Request timed out",
	ErrNetwork:            "Network connection error",
	ErrBackendUnavailable: "Backend server not running",
	ErrUnknown:            "Failed to fetch data",
}

// FetchError is the user-facing outcome of a failed fetch. Remote errors carry
// the collaborator's detail message verbatim.
type FetchError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func NewFetchError(kind ErrorKind, cause error) *FetchError {
	msg, ok := errorMessages[kind]
	if !ok {
		msg = errorMessages[ErrUnknown]
	}
	return &FetchError{Kind: kind, Message: msg, Cause: cause}
}

func NewRemoteError(detail string) *FetchError {
	return &FetchError{Kind: ErrRemote, Message: detail}
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// PlatformFetchState is the runtime state of one subscription. Stats and Error
// are never both set; a loading entry may still carry the previous Stats.
type PlatformFetchState struct {
	Name        Platform       `json:"name"`
	Username    string         `json:"username"`
	Status      Status         `json:"status"`
	Stats       *PlatformStats `json:"stats,omitempty"`
	Error       *FetchError    `json:"error,omitempty"`
	LastUpdated *time.Time     `json:"last_updated,omitempty"`
	Seq         uint64         `json:"seq"`
}

func (s PlatformFetchState) Loading() bool {
	return s.Status == StatusLoading
}

// NewEntries materialises the fixed entry list for a set of subscriptions.
func NewEntries(subs []Subscription) []PlatformFetchState {
	entries := make([]PlatformFetchState, 0, len(subs))
	for _, sub := range subs {
		entries = append(entries, PlatformFetchState{
			Name:     sub.Platform,
			Username: sub.Username,
			Status:   StatusIdle,
		})
	}
	return entries
}
