package cmd

import (
	"context"
	"fmt"

	"github.com/danielolaszy/orderboard/internal/board"
	"github.com/danielolaszy/orderboard/internal/config"
	"github.com/danielolaszy/orderboard/internal/inventree"
	"github.com/danielolaszy/orderboard/internal/logging"
)

// openBoard loads configuration, connects to the server and returns an
// engine whose first refresh has completed. Tests replace it.
var openBoard = func(ctx context.Context) (*board.Engine, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	client, err := inventree.NewClient(cfg.InvenTree)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize inventree client: %w", err)
	}

	if _, err := client.Ping(ctx); err != nil {
		return nil, err
	}

	engine := board.New(client, client, logNotifier{})
	if err := engine.Configure(ctx, cfg.Settings); err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	return engine, nil
}

// logNotifier reports board notifications through the application log.
type logNotifier struct{}

func (logNotifier) Notify(n board.Notification) {
	if n.Failed {
		logging.Error(n.Title, "message", n.Message)
		return
	}
	logging.Info(n.Title, "message", n.Message)
}
