// Package notifications pushes batch results to an ntfy topic.
//
// New returns a no-op notifier when notifications.ntfy_topic is empty, so
// callers never branch on whether pushes are configured. Delivery failures
// are returned to the caller, which logs them; they never fail a batch.
package notifications
