package resample

import "testing"

func TestEngaged(t *testing.T) {
	if Engaged(44100, 44100) {
		t.Fatal("equal rates must not engage the resampler")
	}
	if !Engaged(44100, 48000) {
		t.Fatal("differing rates must engage the resampler")
	}
}
