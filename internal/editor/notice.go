package editor

import (
	"context"
	"sync"
	"time"
)

// NoticeTimer dismisses notices after a fixed delay. Scheduling a new notice
// replaces the pending timer, and cancelling the context passed to
// NewNoticeTimer stops it for good.
type NoticeTimer struct {
	mu      sync.Mutex
	delay   time.Duration
	dismiss func(seq uint64) bool
	timer   *time.Timer
	stopped bool
}

// NewNoticeTimer returns a timer bound to ctx, the lifetime of the screen
// that owns the notices.
func NewNoticeTimer(ctx context.Context, delay time.Duration, dismiss func(seq uint64) bool) *NoticeTimer {
	t := &NoticeTimer{delay: delay, dismiss: dismiss}
	context.AfterFunc(ctx, t.Stop)
	return t
}

// Schedule arranges for the notice with seq to be dismissed after the delay.
func (t *NoticeTimer) Schedule(seq uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.delay, func() { t.dismiss(seq) })
}

// Stop cancels any pending dismissal and ignores later Schedule calls.
func (t *NoticeTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
