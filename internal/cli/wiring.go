package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/compcal/internal/config"
	"github.com/pfrederiksen/compcal/internal/logger"
	"github.com/pfrederiksen/compcal/internal/metrics"
	"github.com/pfrederiksen/compcal/internal/notifier"
	"github.com/pfrederiksen/compcal/internal/store"
)

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}
	return st, nil
}

// newPublisher creates the notifier named by the config. The log driver writes to w.
func newPublisher(cfg *config.Config, w io.Writer) (notifier.Publisher, error) {
	switch strings.ToLower(cfg.Notify.Driver) {
	case config.NotifyTelegram:
		pub, err := notifier.NewTelegramPublisher(cfg.Notify.TelegramBotToken, cfg.Notify.TelegramChatID)
		if err != nil {
			return nil, fmt.Errorf("creating telegram publisher: %w", err)
		}
		return pub, nil
	case config.NotifyTwitter:
		t := cfg.Notify.Twitter
		pub, err := notifier.NewTwitterPublisher(notifier.TwitterCredentials{
			APIKey:       t.APIKey,
			APISecret:    t.APISecret,
			AccessToken:  t.AccessToken,
			AccessSecret: t.AccessSecret,
		})
		if err != nil {
			return nil, fmt.Errorf("creating twitter publisher: %w", err)
		}
		return pub, nil
	case config.NotifyLog, "":
		return notifier.NewDryRunPublisher(w), nil
	default:
		return nil, fmt.Errorf("unknown notify driver: %s", cfg.Notify.Driver)
	}
}

// pushMetrics sends the run's metrics to the gateway. A failed push is logged
// and does not fail the run.
func pushMetrics(ctx context.Context, m *metrics.Metrics, gatewayURL string) {
	if err := m.Push(ctx, gatewayURL); err != nil {
		logger.Warn("Metrics push failed", logger.Fields{
			"gateway": gatewayURL,
			"error":   err.Error(),
		})
	}
}
