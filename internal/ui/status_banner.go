package ui

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

const (
	successBannerLifetime = 4 * time.Second
	errorBannerLifetime   = 8 * time.Second
)

// statusBanner shows one transient message at a time. Success messages
// dismiss themselves quickly, errors linger longer; showing any new
// message replaces the pending dismiss timer so an old timer never
// clears a newer message.
type statusBanner struct {
	label *widget.Label

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

func newStatusBanner() *statusBanner {
	label := widget.NewLabel("")
	label.Wrapping = fyne.TextWrapWord

	return &statusBanner{label: label}
}

func (b *statusBanner) Widget() fyne.CanvasObject {
	return b.label
}

func (b *statusBanner) ShowSuccess(text string) {
	b.show(text, widget.SuccessImportance, successBannerLifetime)
}

func (b *statusBanner) ShowError(text string) {
	b.show(text, widget.DangerImportance, errorBannerLifetime)
}

func (b *statusBanner) Clear() {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.seq++
	b.mu.Unlock()

	b.label.Importance = widget.MediumImportance
	b.label.SetText("")
}

func (b *statusBanner) show(text string, importance widget.Importance, lifetime time.Duration) {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.seq++
	seq := b.seq
	b.timer = time.AfterFunc(lifetime, func() {
		b.expire(seq)
	})
	b.mu.Unlock()

	b.label.Importance = importance
	b.label.SetText(text)
}

func (b *statusBanner) expire(seq uint64) {
	b.mu.Lock()
	stale := seq != b.seq
	if !stale {
		b.timer = nil
	}
	b.mu.Unlock()
	if stale {
		return
	}

	fyne.Do(func() {
		b.label.Importance = widget.MediumImportance
		b.label.SetText("")
	})
}
