// Package game implements the interactive memory game command.
package game

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/futurework-1/NestEgg-Journal/internal/app"
	"github.com/futurework-1/NestEgg-Journal/internal/events"
	"github.com/futurework-1/NestEgg-Journal/internal/game"
)

const columns = 4

// Command creates the game command
func Command(ctx *app.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "game",
		Short: "Play a round of the egg memory game",
		Long: "Find the six pairs of eggs before the clock runs out. Type a card number to flip it, " +
			"'r' to deal again or 'q' to quit.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.Open()
			if err != nil {
				return err
			}
			defer a.Close()
			return play(a, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// console serialises writes from the input loop and from timer callbacks
type console struct {
	mu sync.Mutex
	w  io.Writer
}

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}

func play(a *app.App, in io.Reader, out io.Writer) error {
	con := &console{w: out}
	g := a.NewGame()
	defer g.Close()

	if best, ok := g.Best(); ok && best.Score > 0 {
		con.printf("Best: %s\n", formatRecord(best))
	}

	err := a.Bus.Subscribe(events.ConsumerFunc{
		ConsumerName: "cli-game",
		Fn: func(ev events.Event) error {
			switch ev.Action {
			case game.ActionFinished:
				if res, ok := ev.Payload.(game.Result); ok {
					con.printf("\nRound over: %d pairs in %d moves.\n", res.Pairs, res.Moves)
				}
			case game.ActionBest:
				con.printf("New best score!\n")
			case game.ActionRevealed:
				st := g.Snapshot()
				con.printf("Score: %s  ('r' to play again, 'q' to quit)\n", stars(st.Score))
			}
			return nil
		},
	}, events.TopicGame)
	if err != nil {
		return err
	}
	defer a.Bus.Unsubscribe("cli-game")

	con.printf("Press enter to start.\n")
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "q", "quit":
			return nil
		case "r", "retry":
			g.Retry()
			con.printf("New deck dealt. Press enter to start.\n")
			continue
		case "":
			if g.Snapshot().Phase == game.PhaseIdle {
				if err := g.Start(); err != nil {
					return err
				}
			}
			con.printf("%s", render(g))
			continue
		}

		pos, err := strconv.Atoi(line)
		if err != nil {
			con.printf("Type a card number between 1 and %d.\n", len(g.Snapshot().Cards))
			continue
		}
		if _, err := g.TapAt(pos - 1); err != nil {
			con.printf("%v\n", err)
			continue
		}
		con.printf("%s", render(g))
	}
	return scanner.Err()
}

func render(g *game.Engine) string {
	st := g.Snapshot()
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s  moves %d  pairs %d/%d\n", g.Clock(), st.Moves, st.Pairs, game.PairCount)
	for i, card := range st.Cards {
		label := fmt.Sprintf("%2d", i+1)
		switch {
		case card.Matched:
			label = " *"
		case card.Flipped:
			label = shortSymbol(card.Symbol)
		}
		fmt.Fprintf(&b, "[%s]", label)
		if (i+1)%columns == 0 {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// shortSymbol renders eggCard3 as E3
func shortSymbol(s game.Symbol) string {
	name := string(s)
	return "E" + name[len(name)-1:]
}

func stars(score int) string {
	return strings.Repeat("*", score) + strings.Repeat(".", 3-score)
}

func formatRecord(r game.Record) string {
	return fmt.Sprintf("%s  %d pairs, %d moves", stars(r.Score), r.Pairs, r.Moves)
}
