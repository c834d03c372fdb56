package application

import "time"

type Metrics interface {
	TakeFinished(outcome string)
	STTRequest(outcome string, elapsed time.Duration)
	FallbackUsed()
	ChatRequest(outcome string, elapsed time.Duration)
}

type NoopMetrics struct{}

func (NoopMetrics) TakeFinished(string)               {}
func (NoopMetrics) STTRequest(string, time.Duration)  {}
func (NoopMetrics) FallbackUsed()                     {}
func (NoopMetrics) ChatRequest(string, time.Duration) {}
