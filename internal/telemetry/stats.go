package telemetry

// Stats mirrors spec.md's get_audio_stats payload.
type Stats struct {
	DeviceName        string
	FileSampleRate    float64
	OutputSampleRate  float64
	LatencyMsEstimate float64
	RingBytes         int
}
