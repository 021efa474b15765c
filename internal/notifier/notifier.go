package notifier

import (
	"context"
	"fmt"
)

// Publisher sends a single message to a topic
type Publisher interface {
	Publish(ctx context.Context, topic, message string) error
}

// Summary formats the run summary message for n competitions.
func Summary(n int) string {
	return fmt.Sprintf("Inserted %d Events", n)
}
