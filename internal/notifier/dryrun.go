package notifier

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pfrederiksen/compcal/internal/logger"
)

// DryRunPublisher prints what would be published without sending anything
type DryRunPublisher struct {
	out io.Writer
}

// NewDryRunPublisher creates a dry-run publisher writing to out, or stdout if nil
func NewDryRunPublisher(out io.Writer) *DryRunPublisher {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunPublisher{out: out}
}

// Publish prints the message that would be sent
func (p *DryRunPublisher) Publish(ctx context.Context, topic, message string) error {
	logger.Debug("Dry-run publish", logger.Fields{"topic": topic})
	_, err := fmt.Fprintf(p.out, "--- %s ---\n%s\n", topic, message)
	return err
}
