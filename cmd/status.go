package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/danielolaszy/orderboard/internal/board"
	"github.com/danielolaszy/orderboard/pkg/models"
	"github.com/spf13/cobra"
)

// statusCmd prints how many orders of each type sit in each stage.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the board per stage and order type",
	Long: `This command displays how many orders of each enabled type are in each
stage, and how much of the board is done.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openBoard(cmd.Context())
		if err != nil {
			return err
		}
		return renderStatus(cmd.OutOrStdout(), engine.Snapshot())
	},
}

func renderStatus(w io.Writer, snap board.Snapshot) error {
	s := newStyles(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprint(tw, "Stage")
	for _, t := range snap.EnabledTypes {
		fmt.Fprintf(tw, "\t%s", t.Label())
	}
	fmt.Fprintln(tw, "\tTotal")

	done := 0
	for _, column := range snap.Columns {
		counts := map[models.OrderType]int{}
		for _, card := range column.Cards {
			counts[card.Type]++
		}

		fmt.Fprint(tw, column.Title)
		for _, t := range snap.EnabledTypes {
			fmt.Fprintf(tw, "\t%d", counts[t])
		}
		fmt.Fprintf(tw, "\t%d\n", len(column.Cards))

		if column.Stage == models.StageDone {
			done = len(column.Cards)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	message := statusMessage(done, snap.TotalCards)
	if done == snap.TotalCards && done > 0 {
		message = s.okText.Render(message)
	}
	fmt.Fprintln(w, "\nBoard status:", message)
	return nil
}

func statusMessage(done, total int) string {
	if total == 0 {
		return "No orders on the board"
	}
	if done == total {
		return "All orders are done"
	}

	percentage := float64(done) / float64(total) * 100
	return fmt.Sprintf("%.1f%% done (%d/%d orders)", percentage, done, total)
}
