package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pazhealth/paz/pkg/cli"
	"github.com/pazhealth/paz/pkg/wellness"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Language, theme and other preferences",
	Long: `Show and change the preferences stored with your records.

Keys:
  language        en, es
  theme           dark, light, ocean, sunset, forest
  subscription    free, premium, premium_plus
  notifications   true, false
  sound           true, false (ambient loops during breathing)
  onboarding      true, false

Examples:
  paz profile show
  paz profile set language es`,
}

type profileView struct {
	wellness.Profile `json:",inline"`
	User             string `json:"user"`
	ShowAds          bool   `json:"show_ads"`
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		p, err := e.store.Profile(cmd.Context(), e.user())
		if err != nil {
			return err
		}
		return printResult(profileView{Profile: p, User: e.user(), ShowAds: p.ShowAds()})
	},
}

// profileSetter applies one "profile set" key to a profile.
func profileSetter(key, value string) (func(*wellness.Profile) error, error) {
	parseBool := func(set func(*wellness.Profile, bool)) (func(*wellness.Profile) error, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		return func(p *wellness.Profile) error { set(p, b); return nil }, nil
	}

	switch key {
	case "language":
		return func(p *wellness.Profile) error { p.Language = value; return nil }, nil
	case "theme":
		return func(p *wellness.Profile) error { p.Theme = value; return nil }, nil
	case "subscription":
		return func(p *wellness.Profile) error { p.Subscription = value; return nil }, nil
	case "notifications":
		return parseBool(func(p *wellness.Profile, b bool) { p.NotificationsEnabled = b })
	case "sound":
		return parseBool(func(p *wellness.Profile, b bool) { p.SoundEnabled = b })
	case "onboarding":
		return parseBool(func(p *wellness.Profile, b bool) { p.HasSeenOnboarding = b })
	}
	return nil, fmt.Errorf("unknown profile key %q", key)
}

var profileSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a preference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		fn, err := profileSetter(key, value)
		if err != nil {
			return err
		}
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		if _, err := e.store.UpdateProfile(cmd.Context(), e.user(), fn); err != nil {
			return err
		}
		cli.PrintSuccess(os.Stdout, "Set %s = %s.", key, value)
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)

	rootCmd.AddCommand(profileCmd)
}
