package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"

	"cpd/internal/models"
	"cpd/internal/providers"
	"cpd/internal/storage/interfaces"
)

var ErrNoProfile = errors.New("no profile saved")

// ValidationError carries the per-field messages of a rejected profile.
type ValidationError struct {
	Errors validate.Errors
}

func (e *ValidationError) Error() string {
	return e.Errors.One()
}

// Field returns the first message for a struct field, or "".
func (e *ValidationError) Field(name string) string {
	return e.Errors.FieldOne(name)
}

type ProfileServiceInterface interface {
	Load(ctx context.Context) (*models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) error
}

type ProfileService struct {
	store  interfaces.StoreInterface
	logger providers.Logger
}

func NewProfileService(store interfaces.StoreInterface, logger providers.Logger) ProfileServiceInterface {
	return &ProfileService{store: store, logger: logger}
}

// Load reads the stored blob. It returns ErrNoProfile when onboarding has
// never been completed.
func (ps *ProfileService) Load(ctx context.Context) (*models.Profile, error) {
	data, err := ps.store.Get(ctx, models.ProfileStorageKey)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

// Save normalises and validates the profile, then replaces the stored blob.
// A rejected profile is returned as *ValidationError and nothing is written.
func (ps *ProfileService) Save(ctx context.Context, profile *models.Profile) error {
	if profile == nil {
		return errors.New("profile is nil")
	}

	profile.Name = strings.TrimSpace(profile.Name)
	for _, platform := range models.Platforms {
		profile.SetUsername(platform, strings.TrimSpace(profile.Username(platform)))
	}

	v := validate.Struct(profile)
	if !v.Validate() {
		ps.logger.Debugf(providers.TypePost, "Profile rejected: %s", v.Errors.One())
		return &ValidationError{Errors: v.Errors}
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := ps.store.Set(ctx, models.ProfileStorageKey, data); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}

	ps.logger.Infof(providers.TypeApp, "Profile saved for %s", profile.Name)
	return nil
}
