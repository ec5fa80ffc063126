package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/danielolaszy/orderboard/internal/board"
	"github.com/danielolaszy/orderboard/internal/status"
	"github.com/danielolaszy/orderboard/pkg/models"
	"github.com/spf13/cobra"
)

// boardCmd prints every column of the board with its cards.
var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the kanban board",
	Long: `Fetch build, purchase and sales orders and show them grouped by stage.

Within a stage, cards are sorted by due date (cards without one last) and then
by reference. Each card is listed with its qualified key, e.g. "purchase:12",
which the move command accepts.

Example:
  orderboard board
  orderboard board --stage "on hold"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stageFlag, err := cmd.Flags().GetString("stage")
		if err != nil {
			return err
		}

		var only models.Stage
		if stageFlag != "" {
			only, err = status.ParseStage(stageFlag)
			if err != nil {
				return err
			}
		}

		engine, err := openBoard(cmd.Context())
		if err != nil {
			return err
		}

		return renderBoard(cmd.OutOrStdout(), engine.Snapshot(), only)
	},
}

func init() {
	boardCmd.Flags().StringP("stage", "s", "", "only show one stage (e.g. 'backlog', 'in progress')")
}

// renderBoard writes the header and the columns of snap. A non-empty only
// limits the output to that stage.
func renderBoard(w io.Writer, snap board.Snapshot, only models.Stage) error {
	s := newStyles(w)

	types := make([]string, 0, len(snap.EnabledTypes))
	for _, t := range snap.EnabledTypes {
		types = append(types, t.Label())
	}

	header := fmt.Sprintf("%s  %s  %s",
		s.title.Render("Work Order Kanban"),
		fmt.Sprintf("%d cards", snap.TotalCards),
		s.dim.Render("Types: "+strings.Join(types, ", ")))
	if !snap.LastUpdated.IsZero() {
		header += s.dim.Render("  Updated " + snap.LastUpdated.Format("Jan 2, 15:04"))
	}
	fmt.Fprintln(w, header)

	if snap.Err != nil {
		fmt.Fprintln(w, s.errText.Render("Unable to load data: "+snap.Err.Error()))
	}

	for _, column := range snap.Columns {
		if only != "" && column.Stage != only {
			continue
		}

		fmt.Fprintf(w, "\n%s %s\n",
			s.header.Render(fmt.Sprintf("%s (%d)", column.Title, len(column.Cards))),
			s.dim.Render(column.Description))

		if len(column.Cards) == 0 {
			fmt.Fprintln(w, s.dim.Render("  no orders"))
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, card := range column.Cards {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				card.Key(),
				card.Reference,
				card.Status,
				dueDate(card),
				card.Priority,
				card.Title,
				s.assignee(card))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func dueDate(card models.Card) string {
	if card.DueDate == nil {
		return "-"
	}
	return card.DueDate.Format("2006-01-02")
}
