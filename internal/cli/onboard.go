package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cpd/internal/di"
	"cpd/internal/models"
	"cpd/internal/services"
	"cpd/internal/structures"
)

func newOnboardCmd(flags *structures.CliFlags) *cobra.Command {
	var profile models.Profile
	usernames := make(map[models.Platform]*string, len(models.Platforms))

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Save the profile used by the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			for platform, username := range usernames {
				profile.SetUsername(platform, *username)
			}

			rt, err := di.InitRuntime(flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			err = rt.Profiles.Save(cmd.Context(), &profile)
			var verr *services.ValidationError
			if errors.As(err, &verr) {
				return verr
			}
			if err != nil {
				return err
			}
			_, _ = successColor.Fprintf(cmd.OutOrStdout(), "Profile saved for %s\n", profile.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile.Name, "name", "", "Display name (required)")
	for _, platform := range models.Platforms {
		usernames[platform] = cmd.Flags().String(string(platform), "", profileFlagUsage(platform))
	}
	return cmd
}

func profileFlagUsage(p models.Platform) string {
	return fmt.Sprintf("%s username", p.Title())
}
