package normalize

const (
	// SafetyMargin derates the raw byte budget to leave headroom against
	// encoder overshoot.
	SafetyMargin = 0.95

	// AudioBitrateReserve is the portion of the budget reserved for the
	// fixed 128k audio track, in bits per second.
	AudioBitrateReserve = 128_000

	// MinVideoBitrate and MaxVideoBitrate bound the computed video bitrate,
	// in bits per second. Both bounds are inclusive.
	MinVideoBitrate = 500_000
	MaxVideoBitrate = 5_000_000

	// DefaultDurationSeconds substitutes for the real duration when both
	// probe tiers fail. Bitrate targeting is then approximate, but the
	// operation proceeds rather than aborting.
	DefaultDurationSeconds = 30.0
)

// VideoBitrateKbps computes the video bitrate that fits budgetMB of output in
// durationSeconds of video, expressed in whole kilobits per second.
//
// The clamp applies the floor first and the ceiling second so that a
// pathologically short duration is still capped and a pathologically long
// duration is still floored.
func VideoBitrateKbps(budgetMB, durationSeconds float64) int {
	if durationSeconds <= 0 {
		durationSeconds = DefaultDurationSeconds
	}

	targetBits := budgetMB * 1024 * 1024 * 8 * SafetyMargin
	bitrate := targetBits/durationSeconds - AudioBitrateReserve

	if bitrate < MinVideoBitrate {
		bitrate = MinVideoBitrate
	}
	if bitrate > MaxVideoBitrate {
		bitrate = MaxVideoBitrate
	}

	return int(bitrate / 1000)
}
