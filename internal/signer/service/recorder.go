package service

import "time"

// Recorder receives operational measurements. It is satisfied by
// metrics.Metrics.
type Recorder interface {
	RecordAuthentication(success bool)
	RecordSign(result string)
	ObserveUpstream(upstream string, d time.Duration)
	SetChainLength(n int)
}

type nopRecorder struct{}

func (nopRecorder) RecordAuthentication(bool)             {}
func (nopRecorder) RecordSign(string)                     {}
func (nopRecorder) ObserveUpstream(string, time.Duration) {}
func (nopRecorder) SetChainLength(int)                    {}
