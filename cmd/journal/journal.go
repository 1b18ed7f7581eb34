// Package journal implements the field journal commands.
package journal

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/futurework-1/NestEgg-Journal/internal/app"
	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/journal"
)

// Mark names accepted by the mark command
const (
	MarkSawBird     = "saw-bird"
	MarkFoundEgg    = "found-egg"
	MarkWatchedNest = "watched-nest"
)

// Command creates the journal command and its subcommands
func Command(ctx *app.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Read and write the field journal",
	}
	cmd.AddCommand(listCommand(ctx), addCommand(ctx), markCommand(ctx))
	return cmd
}

func listCommand(ctx *app.Context) *cobra.Command {
	var userOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			list := a.Journal.Observations()
			if userOnly {
				list = a.Journal.UserObservations()
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tTITLE\tLOCATION\tBIRD\tEGG\tNEST")
			for _, o := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", o.Date, o.Title, o.Location,
					check(a.Journal.DidSawBird(o)), check(a.Journal.DidFindEgg(o)), check(a.Journal.DidWatchNest(o)))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&userOnly, "user", false, "Only list entries you added")
	return cmd
}

func check(on bool) string {
	if on {
		return "x"
	}
	return "."
}

func addCommand(ctx *app.Context) *cobra.Command {
	var (
		d           journal.Draft
		date        string
		randomImage bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an observation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := journal.NewDraft(time.Now())
			draft.Title = d.Title
			draft.Location = d.Location
			draft.Coordinates = d.Coordinates
			draft.Description = d.Description
			switch {
			case randomImage:
				draft.Image = journal.RandomImage(nil)
			case d.Image != "":
				draft.Image = d.Image
			}
			if date != "" {
				t, err := time.Parse(journal.DateLayout, date)
				if err != nil {
					return errors.New(fmt.Errorf("date must use %s: %w", journal.DateLayout, err)).
						Component("cmd").
						Category(errors.CategoryValidation).
						Context("date", date).
						Build()
				}
				draft.Date = t
			}
			o, err := draft.Observation()
			if err != nil {
				return err
			}

			a, err := ctx.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Journal.Add(o); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %q on %s\n", o.Title, o.Date)
			return err
		},
	}
	cmd.Flags().StringVar(&d.Title, "title", "", "Observation title (required)")
	cmd.Flags().StringVar(&d.Location, "location", "", "Where it was seen (required)")
	cmd.Flags().StringVar(&d.Coordinates, "coordinates", "", "Coordinates, defaults to "+journal.DefaultCoordinates)
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD, defaults to today")
	cmd.Flags().StringVar(&d.Image, "image", "", "Image name, defaults to "+journal.DefaultImage)
	cmd.Flags().BoolVar(&randomImage, "random-image", false, "Pick a random image")
	cmd.Flags().StringVar(&d.Description, "description", "", "Free text description")
	return cmd
}

func markCommand(ctx *app.Context) *cobra.Command {
	return &cobra.Command{
		Use:       "mark <title> <date> <saw-bird|found-egg|watched-nest>",
		Short:     "Toggle a mark on a journal entry",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{MarkSawBird, MarkFoundEgg, MarkWatchedNest},
		RunE: func(cmd *cobra.Command, args []string) error {
			title, date, mark := args[0], args[1], args[2]

			a, err := ctx.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			o, ok := a.Journal.Find(title, date)
			if !ok {
				return errors.NotFound("journal", "observation", title+"_"+date)
			}

			var toggle func(journal.Observation) (bool, error)
			switch mark {
			case MarkSawBird:
				toggle = a.Journal.ToggleSawBird
			case MarkFoundEgg:
				toggle = a.Journal.ToggleFoundEgg
			case MarkWatchedNest:
				toggle = a.Journal.ToggleWatchedNest
			default:
				return errors.ValidationError(fmt.Sprintf("unknown mark %q", mark))
			}
			on, err := toggle(o)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %t\n", o.Key(), mark, on)
			return err
		},
	}
}
