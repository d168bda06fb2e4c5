package browser

import "time"

// budget tracks what is left of one fetch's timeout across its steps.
type budget struct {
	deadline time.Time
}

func newBudget(now time.Time, timeout time.Duration) budget {
	return budget{deadline: now.Add(timeout)}
}

func (b budget) remaining(now time.Time) time.Duration {
	if left := b.deadline.Sub(now); left > 0 {
		return left
	}
	return 0
}

// remainingMillis is the remaining budget in playwright's unit. Playwright
// treats 0 as "no timeout", so an exhausted budget becomes 1ms.
func (b budget) remainingMillis(now time.Time) float64 {
	ms := float64(b.remaining(now).Milliseconds())
	if ms < 1 {
		return 1
	}
	return ms
}

func (b budget) clamp(now time.Time, d time.Duration) time.Duration {
	return min(d, b.remaining(now))
}

func (b budget) expired(now time.Time) bool {
	return !now.Before(b.deadline)
}
