// Package notifier publishes the run summary of a crawl.
//
// A Publisher sends one message to a topic. Implementations post to a Telegram
// chat or channel, post a status to Twitter, or print the message in dry-run mode.
package notifier
