package cli

import (
	"errors"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cpd/internal/di"
	"cpd/internal/models"
	"cpd/internal/structures"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	mutedColor   = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

func newStatusCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Fetch every platform once and print the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := di.InitRuntime(flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			onboarded, err := rt.Board.Mount(cmd.Context())
			if err != nil {
				return err
			}
			if !onboarded {
				return errors.New("no profile saved, run `cpd onboard` first")
			}
			rt.Board.Wait()

			printStatus(cmd.OutOrStdout(), rt.Board.Snapshot())
			return nil
		},
	}
}

func printStatus(out io.Writer, entries []models.PlatformFetchState) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = boldColor.Fprintln(tw, "PLATFORM\tUSERNAME\tSTATUS\tSOLVED\tE/M/H")
	for _, e := range entries {
		username := e.Username
		if username == "" {
			username = "-"
		}
		switch models.ViewStateOf(e) {
		case models.ViewPopulated:
			_, _ = successColor.Fprintf(tw, "%s\t%s\t%s\t%d\t%d/%d/%d\n", e.Name.Title(), username, e.Status,
				e.Stats.TotalSolved, e.Stats.EasySolved, e.Stats.MediumSolved, e.Stats.HardSolved)
		case models.ViewError:
			_, _ = errorColor.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", e.Name.Title(), username, e.Status, e.Error.Message)
		default:
			_, _ = mutedColor.Fprintf(tw, "%s\t%s\t%s\t-\t\n", e.Name.Title(), username, e.Status)
		}
	}
	_ = tw.Flush()
}
