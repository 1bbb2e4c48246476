package logging

// ProgressSampler thins out per-group progress logs. It emits when completed
// work crosses a new percentage step and always on the final update.
type ProgressSampler struct {
	step     float64
	lastStep int
	finished bool
}

// NewProgressSampler emits once per stepPercent (default 5).
func NewProgressSampler(stepPercent float64) *ProgressSampler {
	if stepPercent <= 0 {
		stepPercent = 5
	}
	return &ProgressSampler{step: stepPercent, lastStep: -1}
}

// ShouldLog reports whether the update for done of total should be logged.
// A nil sampler logs everything.
func (s *ProgressSampler) ShouldLog(done, total int) bool {
	if s == nil || total <= 0 {
		return true
	}
	if done >= total {
		if s.finished {
			return false
		}
		s.finished = true
		return true
	}
	current := int(float64(done) * 100 / float64(total) / s.step)
	if current <= s.lastStep {
		return false
	}
	s.lastStep = current
	return true
}
