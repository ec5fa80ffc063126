package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/danielolaszy/orderboard/internal/board"
	"github.com/danielolaszy/orderboard/internal/status"
	"github.com/spf13/cobra"
)

// moveCmd moves one card to another stage and writes the new status back.
var moveCmd = &cobra.Command{
	Use:   "move <card> <stage>",
	Short: "Move a card to another stage",
	Long: `Move a card to another stage. The order's native status is updated to the
canonical status of that stage for its order type, e.g. moving a purchase order
to Review sets it to "Receiving".

<card> is a qualified key such as "build:12" or a bare order id, in which case
the first matching card on the board is moved.

Example:
  orderboard move purchase:12 review
  orderboard move build:7 "in progress"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := status.ParseStage(args[1]); err != nil {
			return err
		}

		engine, err := openBoard(cmd.Context())
		if err != nil {
			return err
		}

		return runMove(cmd.Context(), engine, cmd.OutOrStdout(), args[0], args[1])
	},
}

func runMove(ctx context.Context, engine *board.Engine, w io.Writer, cardID, stageArg string) error {
	stage, err := status.ParseStage(stageArg)
	if err != nil {
		return err
	}

	card, ok := engine.Card(cardID)
	if !ok {
		return fmt.Errorf("card %s not found on the board", cardID)
	}

	if card.Stage == stage {
		fmt.Fprintf(w, "%s is already in %s\n", card.Reference, status.DefinitionFor(stage).Title)
		return nil
	}

	if err := engine.MoveCard(ctx, card.Key(), stage); err != nil {
		return err
	}

	payload := status.ToNative(card.Type, stage)
	fmt.Fprintf(w, "%s moved from %s to %s (status %q, code %d)\n",
		card.Reference,
		status.DefinitionFor(card.Stage).Title,
		status.DefinitionFor(stage).Title,
		payload.Label,
		payload.Code)
	return nil
}
