// Package anim provides time-driven animation steps: delays, eased property
// animators and sequences of them. Steps are advanced explicitly with the
// current time, so they can be driven from any tick source and tested
// without sleeping.
package anim

import "time"

// Step is one stage of a Sequence.
type Step interface {
	// Begin is called with the time the step becomes current.
	Begin(now time.Time)
	// Update advances the step and reports whether it has finished.
	Update(now time.Time) bool
}

// Delay is a step that does nothing for Duration.
type Delay struct {
	Duration time.Duration
	started  time.Time
}

// Begin implements Step.
func (d *Delay) Begin(now time.Time) {
	d.started = now
}

// Update implements Step.
func (d *Delay) Update(now time.Time) bool {
	return now.Sub(d.started) >= d.Duration
}

// Property interpolates a value from From to To over Duration and reports
// each new value to OnChange.
type Property struct {
	From     float64
	To       float64
	Duration time.Duration
	Easing   Easing
	OnChange func(value float64)

	started time.Time
	last    float64
	emitted bool
}

// Begin implements Step. The starting value is reported immediately.
func (p *Property) Begin(now time.Time) {
	p.started = now
	p.emitted = false
	p.emit(p.From)
}

// Update implements Step.
func (p *Property) Update(now time.Time) bool {
	progress := 1.0
	if p.Duration > 0 {
		progress = float64(now.Sub(p.started)) / float64(p.Duration)
	}
	if progress > 1 {
		progress = 1
	}
	if progress < 0 {
		progress = 0
	}

	easing := p.Easing
	if easing == nil {
		easing = Linear
	}

	p.emit(p.From + (p.To-p.From)*easing(progress))
	return progress >= 1
}

func (p *Property) emit(value float64) {
	if p.emitted && value == p.last {
		return
	}
	p.last = value
	p.emitted = true
	if p.OnChange != nil {
		p.OnChange(value)
	}
}

// Sequence runs steps one after another.
type Sequence struct {
	steps   []Step
	current int
	begun   bool
}

// Add appends a step to the sequence.
func (s *Sequence) Add(step Step) {
	s.steps = append(s.steps, step)
}

// Advance drives the current step to now, moving on to following steps as
// they finish. It returns false once every step has finished.
func (s *Sequence) Advance(now time.Time) bool {
	for s.current < len(s.steps) {
		step := s.steps[s.current]
		if !s.begun {
			step.Begin(now)
			s.begun = true
		}
		if !step.Update(now) {
			return true
		}
		s.current++
		s.begun = false
	}
	return false
}

// Done reports whether every step has finished.
func (s *Sequence) Done() bool {
	return s.current >= len(s.steps)
}
