// Package settings implements the preference and reset commands.
package settings

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/futurework-1/NestEgg-Journal/internal/app"
	"github.com/futurework-1/NestEgg-Journal/internal/conf"
	"github.com/futurework-1/NestEgg-Journal/internal/units"
)

// Command creates the settings command and its subcommands
func Command(ctx *app.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Units, resets and configuration",
	}
	cmd.AddCommand(
		unitsCommand(ctx),
		clearHistoryCommand(ctx),
		resetProgressCommand(ctx),
		showCommand(ctx),
		initConfigCommand(),
	)
	return cmd
}

func unitsCommand(ctx *app.Context) *cobra.Command {
	var temperature, distance string
	cmd := &cobra.Command{
		Use:   "units",
		Short: "Show or change the temperature and distance units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// parse both before opening so a typo changes nothing
			var temp units.TemperatureUnit
			var dist units.DistanceUnit
			var err error
			if temperature != "" {
				if temp, err = units.ParseTemperature(temperature); err != nil {
					return err
				}
			}
			if distance != "" {
				if dist, err = units.ParseDistance(distance); err != nil {
					return err
				}
			}

			a, err := ctx.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			if temp != "" {
				if err := a.Units.SetTemperature(temp); err != nil {
					return err
				}
			}
			if dist != "" {
				if err := a.Units.SetDistance(dist); err != nil {
					return err
				}
			}
			t, d := a.Units.Temperature(), a.Units.Distance()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "temperature: %s (%s)\ndistance:    %s (%s)\n",
				t, t.Symbol(), d, d.Symbol())
			return err
		},
	}
	cmd.Flags().StringVar(&temperature, "temperature", "", "celsius or fahrenheit")
	cmd.Flags().StringVar(&distance, "distance", "", "kilometers or miles")
	return cmd
}

func clearHistoryCommand(ctx *app.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-history",
		Short: "Delete your observations and every journal mark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ClearHistory(); err != nil {
				return err
			}
			return printNotice(cmd, a)
		},
	}
}

func resetProgressCommand(ctx *app.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-progress",
		Short: "Clear studied and favourite birds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ResetProgress(); err != nil {
				return err
			}
			return printNotice(cmd, a)
		},
	}
}

func printNotice(cmd *cobra.Command, a *app.App) error {
	text, ok := a.Banner.Current()
	if !ok {
		return nil
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

func showCommand(ctx *app.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(ctx.Settings)
			if err != nil {
				return fmt.Errorf("error marshaling settings: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func initConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default config.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				paths, err := conf.GetDefaultConfigPaths()
				if err != nil {
					return err
				}
				path = filepath.Join(paths[len(paths)-1], "config.yaml")
			}
			if err := conf.WriteDefaultConfig(path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return err
		},
	}
}
