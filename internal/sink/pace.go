package sink

import "time"

// pacer spaces renders at least interval apart.
type pacer struct {
	interval time.Duration
	last     time.Time
}

// wait blocks until interval has passed since the previous call. It reports
// false when quit closes first.
func (p *pacer) wait(quit <-chan struct{}) bool {
	if !p.last.IsZero() {
		if d := p.interval - time.Since(p.last); d > 0 {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-quit:
				return false
			case <-timer.C:
			}
		}
	}
	p.last = time.Now()
	return true
}
