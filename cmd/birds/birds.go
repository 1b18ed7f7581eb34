// Package birds implements the catalog browsing and progress commands.
package birds

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/futurework-1/NestEgg-Journal/internal/app"
	"github.com/futurework-1/NestEgg-Journal/internal/catalog"
)

// Command creates the birds command and its subcommands
func Command(ctx *app.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "birds",
		Short: "Browse the bird catalog",
	}
	cmd.AddCommand(listCommand(ctx), showCommand(ctx), studyCommand(ctx), favouriteCommand(ctx))
	return cmd
}

func listCommand(ctx *app.Context) *cobra.Command {
	var f catalog.Filter
	var onlyFavourites bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List birds matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			birds := a.Catalog.Search(f)
			if onlyFavourites {
				kept := birds[:0]
				for _, b := range birds {
					if a.Catalog.IsFavourite(b) {
						kept = append(kept, b)
					}
				}
				birds = kept
			}
			return printBirds(cmd.OutOrStdout(), a, birds)
		},
	}
	cmd.Flags().StringVar(&f.Area, "area", catalog.OptionAll, "Area: "+strings.Join(catalog.AreaOptions, ", "))
	cmd.Flags().StringVar(&f.Size, "size", catalog.OptionAll, "Size: "+strings.Join(catalog.SizeOptions, ", "))
	cmd.Flags().StringVar(&f.Place, "place", catalog.OptionAll, "Place: "+strings.Join(catalog.PlaceOptions, ", "))
	cmd.Flags().BoolVar(&onlyFavourites, "favourites", false, "Only list favourite birds")
	return cmd
}

func printBirds(w io.Writer, a *app.App, birds []catalog.Bird) error {
	if len(birds) == 0 {
		_, err := fmt.Fprintln(w, "No birds match the selected filters.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tPLACES\tSTUDIED\tFAVOURITE")
	for i := range birds {
		b := &birds[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			b.Name, catalog.Size(b), catalog.Places(b),
			mark(a.Catalog.IsStudied(*b)), mark(a.Catalog.IsFavourite(*b)))
	}
	return tw.Flush()
}

func mark(on bool) string {
	if on {
		return "yes"
	}
	return "-"
}

func showCommand(ctx *app.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := a.Catalog.Lookup(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n\n", b.Name)
			fmt.Fprintf(w, "Region:      %s\n", b.Region)
			fmt.Fprintf(w, "Behavior:    %s\n", b.Behavior)
			fmt.Fprintf(w, "Appearance:  %s\n", b.Appearance)
			fmt.Fprintf(w, "Eggs:        %s, %s, clutch %s\n", b.EggInfo.Shape, b.EggInfo.Color, b.EggInfo.ClutchSize)
			fmt.Fprintf(w, "Size:        %s\n", catalog.Size(&b))
			fmt.Fprintf(w, "Places:      %s\n", catalog.Places(&b))
			if b.Notes != "" {
				fmt.Fprintf(w, "Notes:       %s\n", b.Notes)
			}
			fmt.Fprintf(w, "Studied:     %s\n", mark(a.Catalog.IsStudied(b)))
			_, err = fmt.Fprintf(w, "Favourite:   %s\n", mark(a.Catalog.IsFavourite(b)))
			return err
		},
	}
}

func toggleCommand(ctx *app.Context, use, short, label string, toggle func(*catalog.Store, catalog.Bird) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := a.Catalog.Lookup(args[0])
			if err != nil {
				return err
			}
			on, err := toggle(a.Catalog, b)
			if err != nil {
				return err
			}
			state := "removed from"
			if on {
				state = "added to"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", b.Name, state, label)
			return err
		},
	}
}

func studyCommand(ctx *app.Context) *cobra.Command {
	return toggleCommand(ctx, "study", "Toggle a bird as studied", "studied birds", (*catalog.Store).ToggleStudied)
}

func favouriteCommand(ctx *app.Context) *cobra.Command {
	return toggleCommand(ctx, "favourite", "Toggle a bird as favourite", "favourites", (*catalog.Store).ToggleFavourite)
}
