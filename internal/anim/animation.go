// Package anim drives float values from one bound to another over a fixed
// duration. Nothing here owns a goroutine: the host samples a Clock and calls
// Tick once per frame, the same way an ebiten Update loop advances state.
package anim

import "time"

// DefaultDuration matches the widget's expand, collapse and rotate timing.
const DefaultDuration = 350 * time.Millisecond

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// Linear leaves progress untouched.
func Linear(t float64) float64 { return t }

// Decelerate starts fast and slows into the end value: 1-(1-t)^2.
func Decelerate(t float64) float64 {
	t = clamp01(t)
	return 1 - (1-t)*(1-t)
}

// Animation interpolates From -> To. Callbacks are optional.
//
// OnStart runs when Start is called, before the first OnUpdate, so listeners
// can snapshot whatever state the animation is relative to. Cancel fires
// OnCancel and then OnEnd for a running animation; natural completion fires
// OnEnd only.
type Animation struct {
	From, To float64
	Duration time.Duration
	Easing   Easing

	OnStart  func()
	OnUpdate func(v float64)
	OnEnd    func()
	OnCancel func()

	started time.Time
	running bool
	value   float64
}

// Start begins the animation at now. A running animation is cancelled first.
func (a *Animation) Start(now time.Time) {
	if a.running {
		a.Cancel()
	}
	a.started = now
	a.running = true
	a.value = a.From
	if a.OnStart != nil {
		a.OnStart()
	}
	a.update(a.From)
}

// Tick samples the animation at now. It reports whether the animation is
// still running afterwards.
func (a *Animation) Tick(now time.Time) bool {
	if !a.running {
		return false
	}
	progress := 1.0
	if a.Duration > 0 {
		progress = clamp01(float64(now.Sub(a.started)) / float64(a.Duration))
	}
	ease := a.Easing
	if ease == nil {
		ease = Linear
	}
	a.update(a.From + (a.To-a.From)*ease(progress))

	if progress >= 1 {
		a.running = false
		if a.OnEnd != nil {
			a.OnEnd()
		}
		return false
	}
	return true
}

// Cancel stops a running animation where it is. The value is left at its
// last sampled position.
func (a *Animation) Cancel() {
	if !a.running {
		return
	}
	a.running = false
	if a.OnCancel != nil {
		a.OnCancel()
	}
	if a.OnEnd != nil {
		a.OnEnd()
	}
}

// Finish jumps a running animation to its end value and completes it as if
// its full duration had elapsed.
func (a *Animation) Finish() {
	if !a.running {
		return
	}
	a.Tick(a.started.Add(a.Duration))
}

func (a *Animation) Running() bool { return a.running }

// Value is the last interpolated value.
func (a *Animation) Value() float64 { return a.value }

func (a *Animation) update(v float64) {
	a.value = v
	if a.OnUpdate != nil {
		a.OnUpdate(v)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
