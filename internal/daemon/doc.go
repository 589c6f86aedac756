// Package daemon drives the periodic capture workflow: on each cycle it
// records a clip through OBS, normalizes the artifact to the publish
// channel's constraints, posts it, and cleans up. The daemon holds a file
// lock so only one instance runs at a time, and a failed cycle backs off and
// retries rather than stopping the schedule.
package daemon
