package form

// SubmitFunc receives the trimmed draft and, for edits, the original id
// (zero for creates).
type SubmitFunc func(d Draft, id int)

// Form is the widget-facing contract: it holds the in-progress draft and
// field errors, and guarantees the submit callback runs only for a valid
// draft, exactly once per successful Submit. Both a successful Submit and
// a Cancel reset all fields and errors.
type Form struct {
	draft    Draft
	editID   int
	errs     map[string]string
	onSubmit SubmitFunc
}

// NewCreate builds an empty create form.
func NewCreate(onSubmit SubmitFunc) *Form {
	return &Form{onSubmit: onSubmit, errs: map[string]string{}}
}

// NewEdit builds a form prefilled from an existing record.
func NewEdit(id int, d Draft, onSubmit SubmitFunc) *Form {
	return &Form{draft: d, editID: id, onSubmit: onSubmit, errs: map[string]string{}}
}

func (f *Form) SetDraft(d Draft) {
	f.draft = d
}

func (f *Form) Draft() Draft {
	return f.draft
}

// Errors returns the field errors from the last Submit attempt.
func (f *Form) Errors() map[string]string {
	return f.errs
}

// Submit validates the draft. With any field error present the submission
// is blocked and false is returned. Otherwise the callback is invoked with
// the trimmed draft (and the edit id, if any) and the form resets.
func (f *Form) Submit() bool {
	errs := Validate(f.draft)
	if len(errs) > 0 {
		f.errs = errs
		return false
	}

	if f.onSubmit != nil {
		f.onSubmit(f.draft.Trim(), f.editID)
	}
	f.reset()
	return true
}

// Cancel resets all fields and errors without submitting.
func (f *Form) Cancel() {
	f.reset()
}

func (f *Form) reset() {
	f.draft = Draft{}
	f.editID = 0
	f.errs = map[string]string{}
}
