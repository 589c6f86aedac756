// Command obsrec records clips from OBS on a fixed schedule, normalizes them
// to Discord's attachment constraints, and posts them to a channel.
package main
