package coordinator

import (
	"time"

	"fyne.io/fyne/v2"
)

// FrameSource schedules animation frames on the goroutine that owns a State.
type FrameSource interface {
	// Do runs fn on the frame goroutine and waits for it to return.
	Do(fn func())
	// Start calls tick once per frame with the elapsed fraction of d,
	// ending with 1. The returned func stops further ticks.
	Start(d time.Duration, tick func(fraction float32)) (stop func())
}

// FyneFrames drives animations with the running Fyne app, which ticks
// animations on its main goroutine.
type FyneFrames struct{}

var _ FrameSource = FyneFrames{}

// Do implements FrameSource.
func (FyneFrames) Do(fn func()) {
	fyne.DoAndWait(fn)
}

// Start implements FrameSource. The curve stays linear; easing is applied by
// the Animation itself so every FrameSource samples the same way.
func (FyneFrames) Start(d time.Duration, tick func(fraction float32)) func() {
	anim := fyne.NewAnimation(d, tick)
	anim.Curve = fyne.AnimationLinear
	anim.Start()
	return anim.Stop
}
