package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// ErrValidationBlocked is returned by Save when the local validation pass
// fails. Nothing is transmitted and every field error is revealed.
var ErrValidationBlocked = errors.New("please check the highlighted values")

// ErrSaveInFlight is returned when a save is requested while another save
// is still awaiting its response.
var ErrSaveInFlight = errors.New("another settings save is already in progress")

// ErrNotLoaded is returned by Reset before the first successful load.
var ErrNotLoaded = errors.New("settings have not been loaded yet")

// LoadFunc fetches the stored settings document and the server defaults.
type LoadFunc func(ctx context.Context) (stored, defaults map[string]string, err error)

// SaveFunc submits the canonical settings document.
type SaveFunc func(ctx context.Context, canonical map[string]string) error

// errorCoder is implemented by transport errors that carry a backend error
// code. It is matched structurally so this package needs no transport
// dependency.
type errorCoder interface {
	ErrorCode() string
}

// friendlyErrors translates known backend error codes into messages fit for
// the settings page. Unknown codes pass through verbatim.
var friendlyErrors = map[string]string{
	"not_writable": "That setting cannot be changed from this page.",
	"bad_value":    "The server rejected one of the submitted values.",
	"unauthorized": "Your session has expired. Sign in again.",
	"forbidden":    "Your account is not allowed to change settings.",
}

// Reconciler keeps the local settings draft synchronized with the remote
// store. It owns the Form and serializes every access to it, so a single
// Reconciler can be shared between UI callbacks and background responses.
//
// Each load and save carries a monotonically increasing token; a response
// that is no longer the most recent for its operation is discarded instead
// of clobbering newer state.
type Reconciler struct {
	mu     sync.Mutex
	form   *Form
	load   LoadFunc
	save   SaveFunc
	logger *slog.Logger

	loaded  bool
	loading bool
	saving  bool

	loadToken uint64
	saveToken uint64
}

func NewReconciler(load LoadFunc, save SaveFunc, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default().With("component", "settings.reconciler")
	}

	return &Reconciler{
		form:   NewForm(),
		load:   load,
		save:   save,
		logger: logger,
	}
}

// Load fetches the remote document and reseeds the draft. A stale response
// (superseded by a newer load) is discarded.
func (r *Reconciler) Load(ctx context.Context) error {
	if r.load == nil {
		return fmt.Errorf("settings loader is not configured")
	}

	r.mu.Lock()
	r.loading = true
	r.loadToken++
	token := r.loadToken
	r.mu.Unlock()

	stored, defaults, err := r.load(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if token != r.loadToken {
		r.logger.Debug("discarding stale settings load response", "token", token, "latest", r.loadToken)

		return nil
	}
	r.loading = false
	if err != nil {
		r.logger.Warn("load settings", "error", err)

		return friendlyError(err)
	}

	r.form.Seed(stored, defaults)
	r.loaded = true
	r.logger.Info("loaded settings", "stored_keys", len(stored), "default_keys", len(defaults))

	return nil
}

// Save runs the exhaustive validation pass and submits the canonical
// document. A failing pass blocks the submit, reveals every field error and
// returns ErrValidationBlocked. A transport failure leaves the draft
// untouched so the in-progress edits survive for retry.
func (r *Reconciler) Save(ctx context.Context) error {
	if r.save == nil {
		return fmt.Errorf("settings saver is not configured")
	}

	r.mu.Lock()
	if r.saving {
		r.mu.Unlock()

		return ErrSaveInFlight
	}

	canonical, errs := r.form.ValidateAll()
	if canonical == nil {
		r.form.SetErrors(errs)
		r.form.MarkAllRevealed()
		r.mu.Unlock()
		r.logger.Info("settings save blocked by validation", "failed_fields", countFailed(errs))

		return ErrValidationBlocked
	}

	r.saving = true
	r.saveToken++
	token := r.saveToken
	r.mu.Unlock()

	err := r.save(ctx, canonical)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.saving = false
	if token != r.saveToken {
		r.logger.Debug("discarding stale settings save response", "token", token, "latest", r.saveToken)

		return nil
	}
	if err != nil {
		r.logger.Warn("save settings", "error", err)

		return friendlyError(err)
	}

	r.form.ApplySaved(canonical)
	r.logger.Info("saved settings", "keys", len(canonical))

	return nil
}

// Reset restores the draft to the server defaults. The change is local
// until the next save.
func (r *Reconciler) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return ErrNotLoaded
	}
	r.form.Reset()

	return nil
}

// SetValue records a user edit.
func (r *Reconciler) SetValue(key, raw string) {
	r.mu.Lock()
	r.form.SetValue(key, raw)
	r.mu.Unlock()
}

// Value returns the current draft value for key.
func (r *Reconciler) Value(key string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.form.Value(key)
}

// VisibleError returns the display-gated error for key.
func (r *Reconciler) VisibleError(key string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.form.VisibleError(key)
}

// FieldError returns the error for key regardless of display gating.
func (r *Reconciler) FieldError(key string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.form.Error(key)
}

// Snapshot returns a copy of the current draft.
func (r *Reconciler) Snapshot() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.form.Snapshot()
}

// Loaded reports whether the first load has completed. Reset stays
// unavailable until it has.
func (r *Reconciler) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loaded
}

// Loading reports whether a load is awaiting its response.
func (r *Reconciler) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loading
}

// Saving reports whether a save is awaiting its response. The triggering
// control is disabled while true to prevent duplicate submissions.
func (r *Reconciler) Saving() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.saving
}

func countFailed(errs map[string]string) int {
	failed := 0
	for _, message := range errs {
		if message != "" {
			failed++
		}
	}

	return failed
}

// friendlyError maps known backend error codes onto friendlier text and
// passes everything else through unchanged.
func friendlyError(err error) error {
	var coder errorCoder
	if !errors.As(err, &coder) {
		return err
	}
	message, ok := friendlyErrors[strings.TrimSpace(coder.ErrorCode())]
	if !ok {
		return err
	}

	return errors.New(message)
}
