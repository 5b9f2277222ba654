package wellness

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/pazhealth/paz/pkg/kv"
	"github.com/vmihailenco/msgpack/v5"
)

// Subscription tiers.
const (
	SubscriptionFree        = "free"
	SubscriptionPremium     = "premium"
	SubscriptionPremiumPlus = "premium_plus"
)

var (
	Languages     = []string{"en", "es"}
	Subscriptions = []string{SubscriptionFree, SubscriptionPremium, SubscriptionPremiumPlus}
	Themes        = []string{"dark", "light", "ocean", "sunset", "forest"}
)

// Profile holds a user's preferences.
type Profile struct {
	Language             string `json:"language" yaml:"language" msgpack:"language"`
	Subscription         string `json:"subscription" yaml:"subscription" msgpack:"subscription"`
	NotificationsEnabled bool   `json:"notifications_enabled" yaml:"notifications_enabled" msgpack:"notifications_enabled"`
	SoundEnabled         bool   `json:"sound_enabled" yaml:"sound_enabled" msgpack:"sound_enabled"`
	Theme                string `json:"theme" yaml:"theme" msgpack:"theme"`
	Streak               int    `json:"streak" yaml:"streak" msgpack:"streak"`
	HasSeenOnboarding    bool   `json:"has_seen_onboarding" yaml:"has_seen_onboarding" msgpack:"has_seen_onboarding"`
}

// DefaultProfile is returned for users without a stored profile.
func DefaultProfile() Profile {
	return Profile{
		Language:             "en",
		Subscription:         SubscriptionFree,
		NotificationsEnabled: true,
		SoundEnabled:         true,
		Theme:                "dark",
	}
}

// ShowAds reports whether the tier shows ads.
func (p Profile) ShowAds() bool {
	return p.Subscription != SubscriptionPremiumPlus
}

// Validate checks the enumerated fields.
func (p Profile) Validate() error {
	switch {
	case !slices.Contains(Languages, p.Language):
		return fmt.Errorf("%w: language %q", ErrInvalidProfile, p.Language)
	case !slices.Contains(Subscriptions, p.Subscription):
		return fmt.Errorf("%w: subscription %q", ErrInvalidProfile, p.Subscription)
	case !slices.Contains(Themes, p.Theme):
		return fmt.Errorf("%w: theme %q", ErrInvalidProfile, p.Theme)
	case p.Streak < 0:
		return fmt.Errorf("%w: negative streak", ErrInvalidProfile)
	}
	return nil
}

func (s *Store) profileKey(userID string) kv.Key {
	return s.prefix.Append(kindProfile, userID)
}

// Profile returns the stored profile, or DefaultProfile when none exists.
func (s *Store) Profile(ctx context.Context, userID string) (Profile, error) {
	if userID == "" {
		return Profile{}, ErrMissingUser
	}
	data, err := s.kv.Get(ctx, s.profileKey(userID))
	if errors.Is(err, kv.ErrNotFound) {
		return DefaultProfile(), nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("wellness: get profile: %w", err)
	}
	p := DefaultProfile()
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("wellness: decode profile: %w", err)
	}
	return p, nil
}

// UpdateProfile applies fn to the current profile and stores the result if
// it is valid. An error from fn aborts the update.
func (s *Store) UpdateProfile(ctx context.Context, userID string, fn func(*Profile) error) (Profile, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if err := fn(&p); err != nil {
		return Profile{}, err
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	data, err := msgpack.Marshal(p)
	if err != nil {
		return Profile{}, err
	}
	if err := s.kv.Set(ctx, s.profileKey(userID), data); err != nil {
		return Profile{}, fmt.Errorf("wellness: set profile: %w", err)
	}
	return p, nil
}
