// Package discord posts finished recordings to the configured text channel
// as a message with a file attachment.
package discord
