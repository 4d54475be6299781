package metrics

import "time"

// NoopRecorder discards all measurements. It is the default when no
// recorder is configured.
type NoopRecorder struct{}

func (NoopRecorder) IncCounter(string, map[string]string)                     {}
func (NoopRecorder) ObserveLatency(string, time.Duration, map[string]string) {}
