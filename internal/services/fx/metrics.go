package fx

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordRateLookup(string)      {}
func (n *NoopMetricsCollector) RecordProviderAttempt(string) {}
