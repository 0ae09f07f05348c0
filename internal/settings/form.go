package settings

// Form tracks the editable draft of the backend settings document together
// with per-field validation errors, per-field touched flags and the
// reveal-all flag that forces errors to display after a blocked save.
//
// Form is not safe for concurrent use; the Reconciler serializes access.
type Form struct {
	current    map[string]string
	defaults   map[string]string
	lastLoaded map[string]string
	errors     map[string]string
	touched    map[string]bool
	revealAll  bool
}

// NewForm returns a form with every schema key present and empty.
func NewForm() *Form {
	f := &Form{
		current:    make(map[string]string, len(schema)),
		defaults:   make(map[string]string, len(schema)),
		lastLoaded: make(map[string]string, len(schema)),
		errors:     make(map[string]string, len(schema)),
		touched:    make(map[string]bool, len(schema)),
	}
	for _, key := range Keys() {
		f.current[key] = ""
		f.defaults[key] = ""
		f.lastLoaded[key] = ""
		f.touched[key] = false
	}
	f.revalidate()

	return f
}

// Seed replaces the draft with the freshly loaded document: for each schema
// key the stored value wins, then the server default, then empty. Touched
// flags and reveal-all are cleared; errors are recomputed immediately so a
// stale invalid stored value is flagged before the user touches it.
func (f *Form) Seed(stored, defaults map[string]string) {
	for _, key := range Keys() {
		value, ok := stored[key]
		if !ok {
			value, ok = defaults[key]
		}
		if !ok {
			value = ""
		}
		f.current[key] = value
		f.lastLoaded[key] = value
		f.touched[key] = false

		if def, haveDefault := defaults[key]; haveDefault {
			f.defaults[key] = def
		} else {
			f.defaults[key] = value
		}
	}
	f.revealAll = false
	f.revalidate()
}

// SetValue records a user edit: the field becomes touched and its error is
// recomputed. Unknown keys are ignored.
func (f *Form) SetValue(key, raw string) {
	if !KnownKey(key) {
		return
	}
	f.current[key] = raw
	f.touched[key] = true
	f.revalidateField(key)
}

// Value returns the current draft value for key.
func (f *Form) Value(key string) string {
	return f.current[key]
}

// Error returns the current validation error for key regardless of whether
// it should be displayed yet.
func (f *Form) Error(key string) string {
	return f.errors[key]
}

// VisibleError returns the error for key only once the field has been
// touched or a blocked save revealed all errors.
func (f *Form) VisibleError(key string) string {
	if !f.touched[key] && !f.revealAll {
		return ""
	}

	return f.errors[key]
}

// Touched reports whether the user has edited key since the last load,
// reset or successful save.
func (f *Form) Touched(key string) bool {
	return f.touched[key]
}

// RevealAll reports whether a blocked save forced every error visible.
func (f *Form) RevealAll() bool {
	return f.revealAll
}

// MarkAllRevealed forces every field's error to display.
func (f *Form) MarkAllRevealed() {
	f.revealAll = true
}

// HasErrors reports whether any field currently fails validation.
func (f *Form) HasErrors() bool {
	for _, message := range f.errors {
		if message != "" {
			return true
		}
	}

	return false
}

// ValidateAll runs the full validation pass over the current draft. It
// returns the canonical document when every field passes, and the complete
// error map either way. The pass is idempotent: repeated calls on an
// unchanged draft produce identical results.
func (f *Form) ValidateAll() (map[string]string, map[string]string) {
	canonical := make(map[string]string, len(schema))
	errs := make(map[string]string, len(schema))
	failed := false
	for _, key := range Keys() {
		value, err := Validate(key, f.current[key])
		if err != nil {
			errs[key] = err.Error()
			failed = true

			continue
		}
		errs[key] = ""
		canonical[key] = value
	}
	if failed {
		return nil, errs
	}

	return canonical, errs
}

// SetErrors replaces the error map wholesale, used after a blocked save so
// the displayed errors match the blocking pass exactly.
func (f *Form) SetErrors(errs map[string]string) {
	for _, key := range Keys() {
		f.errors[key] = errs[key]
	}
}

// Reset restores the draft to the server defaults verbatim (Seed falls
// back to the last loaded value for keys the server supplied no default
// for) and clears all touched flags and the reveal-all flag. Nothing is
// persisted until the next save.
func (f *Form) Reset() {
	for _, key := range Keys() {
		f.current[key] = f.defaults[key]
		f.touched[key] = false
	}
	f.revealAll = false
	f.revalidate()
}

// ApplySaved replaces the draft and the last-loaded document with the
// canonical values accepted by the backend.
func (f *Form) ApplySaved(canonical map[string]string) {
	for _, key := range Keys() {
		if value, ok := canonical[key]; ok {
			f.current[key] = value
			f.lastLoaded[key] = value
		}
		f.touched[key] = false
	}
	f.revealAll = false
	f.revalidate()
}

// Snapshot returns a copy of the current draft.
func (f *Form) Snapshot() map[string]string {
	out := make(map[string]string, len(f.current))
	for key, value := range f.current {
		out[key] = value
	}

	return out
}

// Defaults returns a copy of the server-provided defaults.
func (f *Form) Defaults() map[string]string {
	out := make(map[string]string, len(f.defaults))
	for key, value := range f.defaults {
		out[key] = value
	}

	return out
}

func (f *Form) revalidate() {
	for _, key := range Keys() {
		f.revalidateField(key)
	}
}

func (f *Form) revalidateField(key string) {
	if _, err := Validate(key, f.current[key]); err != nil {
		f.errors[key] = err.Error()

		return
	}
	f.errors[key] = ""
}
