package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mekedron/cheftonic-cli/internal/booking"
	"github.com/mekedron/cheftonic-cli/internal/config"
	"github.com/mekedron/cheftonic-cli/internal/domain"
	"github.com/mekedron/cheftonic-cli/internal/labels"
)

func newConfigureCommand(deps Dependencies) *cobra.Command {
	var profileName string
	var restaurantKey string
	var contact domain.Contact
	var locale string
	var timezone string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Create and manage local booking profiles.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.Config == nil {
				return fmt.Errorf("config store is not available")
			}
			if strings.TrimSpace(restaurantKey) != "" {
				key, err := booking.ParseKey(restaurantKey)
				if err != nil {
					return err
				}
				restaurantKey = key.Raw
			}
			if strings.TrimSpace(timezone) != "" {
				if _, err := config.ResolveLocation(timezone); err != nil {
					return err
				}
			}
			if strings.TrimSpace(locale) != "" {
				locale = labels.ResolveLocale(locale)
			}
			update := domain.Profile{
				Name:          strings.TrimSpace(profileName),
				RestaurantKey: restaurantKey,
				Contact:       mergeContact(domain.Contact{}, contact),
				Locale:        locale,
				Timezone:      strings.TrimSpace(timezone),
			}

			existingCfg, loadErr := deps.Config.Load(cmd.Context())
			hasExisting := loadErr == nil
			if hasExisting && !overwrite {
				index := findProfileIndex(existingCfg, update.Name)
				if index < 0 {
					existingCfg.Profiles = append(existingCfg.Profiles, domain.Profile{Name: defaultProfileName(update.Name)})
					index = len(existingCfg.Profiles) - 1
				}
				existingCfg.Profiles[index] = applyProfileUpdate(existingCfg.Profiles[index], update)
				if err := deps.Config.Save(cmd.Context(), existingCfg); err != nil {
					return err
				}
				return writeTable(cmd, fmt.Sprintf("🏁 Profile %q updated successfully!", existingCfg.Profiles[index].Name), "")
			}

			update.Name = defaultProfileName(update.Name)
			update.IsDefault = true
			cfg := domain.Config{Profiles: []domain.Profile{update}}
			if err := deps.Config.Save(cmd.Context(), cfg); err != nil {
				return err
			}
			return writeTable(cmd, "🏁 Config was created successfully!", "")
		},
	}

	cmd.Flags().StringVar(&profileName, "profile-name", "Default", "Profile name")
	cmd.Flags().StringVar(&restaurantKey, "restaurant-key", "", "Default restaurant booking key (<uuid>.<index>).")
	cmd.Flags().StringVar(&contact.Name, "name", "", "Guest first name used for bookings.")
	cmd.Flags().StringVar(&contact.Surname, "surname", "", "Guest surname used for bookings.")
	cmd.Flags().StringVar(&contact.Email, "email", "", "Guest email used for bookings.")
	cmd.Flags().StringVar(&contact.Phone, "phone", "", "Guest phone number used for bookings.")
	cmd.Flags().StringVar(&locale, "default-locale", "", "Label locale saved with the profile.")
	cmd.Flags().StringVar(&timezone, "default-timezone", "", "Restaurant IANA time zone saved with the profile.")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing config")
	return cmd
}

// findProfileIndex matches by name, or picks the default profile when no name is given.
func findProfileIndex(cfg domain.Config, profileName string) int {
	trimmed := strings.TrimSpace(profileName)
	if trimmed != "" {
		for i, profile := range cfg.Profiles {
			if strings.EqualFold(strings.TrimSpace(profile.Name), trimmed) {
				return i
			}
		}
		return -1
	}
	for i, profile := range cfg.Profiles {
		if profile.IsDefault {
			return i
		}
	}
	if len(cfg.Profiles) == 1 {
		return 0
	}
	return -1
}

func applyProfileUpdate(profile domain.Profile, update domain.Profile) domain.Profile {
	if update.RestaurantKey != "" {
		profile.RestaurantKey = update.RestaurantKey
	}
	profile.Contact = mergeContact(profile.Contact, update.Contact)
	if update.Locale != "" {
		profile.Locale = update.Locale
	}
	if update.Timezone != "" {
		profile.Timezone = update.Timezone
	}
	return profile
}
