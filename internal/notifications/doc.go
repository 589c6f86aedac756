// Package notifications sends optional ntfy push notifications for publish
// and failure events. When no topic is configured the service degrades to a
// noop so callers never need to branch.
package notifications
