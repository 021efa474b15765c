package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
)

// TwitterCredentials holds the OAuth1 keys of the posting account
type TwitterCredentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// TwitterPublisher posts the message as a status update
type TwitterPublisher struct {
	client *twitter.Client
}

// NewTwitterPublisher creates a publisher authenticated with creds
func NewTwitterPublisher(creds TwitterCredentials) (*TwitterPublisher, error) {
	if creds.APIKey == "" || creds.APISecret == "" || creds.AccessToken == "" || creds.AccessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials")
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return newTwitterPublisher(httpClient), nil
}

func newTwitterPublisher(httpClient *http.Client) *TwitterPublisher {
	return &TwitterPublisher{client: twitter.NewClient(httpClient)}
}

// Publish posts the message, prefixed with the topic as a hashtag when set
func (p *TwitterPublisher) Publish(ctx context.Context, topic, message string) error {
	tweet := formatTweet(topic, message)

	_, _, err := p.client.Statuses.Update(tweet, nil)
	if err != nil {
		return fmt.Errorf("failed to post tweet: %w", err)
	}
	return nil
}

// formatTweet formats the message as a tweet
func formatTweet(topic, message string) string {
	tweet := message
	if tag := hashtag(topic); tag != "" {
		tweet = fmt.Sprintf("%s %s", tag, message)
	}

	// Twitter limit is 280 characters
	if len(tweet) > 280 {
		tweet = tweet[:277] + "..."
	}
	return tweet
}

// hashtag turns a topic such as "compcal-ingest" into "#compcalingest"
func hashtag(topic string) string {
	var b strings.Builder
	for _, r := range topic {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "#" + b.String()
}
