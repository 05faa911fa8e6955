package client

import "github.com/anand/student-registry/internal/models"

// Form mirrors the frontend's form state: one editable record, an
// optional editing id (nil means creating a new record), a field setter
// keyed by input name, and a submit that dispatches to update or add.
// The form only resets after a confirmed success; a failed submit
// preserves what the user typed.
type Form struct {
	roster    *Roster
	fields    models.RegisterRequest
	editingID *int64
}

func NewForm(roster *Roster) *Form {
	return &Form{roster: roster}
}

// SetField updates one field by its input name. Unknown names are
// ignored, matching the original form's behavior for stray inputs.
func (f *Form) SetField(name, value string) {
	switch name {
	case "firstName":
		f.fields.FirstName = value
	case "lastName":
		f.fields.LastName = value
	case "username":
		f.fields.Username = value
	case "email":
		f.fields.Email = value
	case "contact":
		f.fields.Contact = value
	case "password":
		f.fields.Password = value
	}
}

// Fields returns the current form contents.
func (f *Form) Fields() models.RegisterRequest { return f.fields }

// Editing reports whether the form is editing an existing record.
func (f *Form) Editing() bool { return f.editingID != nil }

// Edit loads an existing record into the form for update-on-submit.
func (f *Form) Edit(s models.StudentSummary) {
	id := s.ID
	f.editingID = &id
	f.fields = models.RegisterRequest{
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Contact:   s.Contact,
	}
}

// Reset clears the form and leaves create mode active.
func (f *Form) Reset() {
	f.fields = models.RegisterRequest{}
	f.editingID = nil
}

// Submit adds a new record, or updates the one being edited. The form
// resets only when the underlying call succeeded.
func (f *Form) Submit() error {
	var err error
	if f.editingID != nil {
		err = f.roster.Update(*f.editingID, f.fields)
	} else {
		err = f.roster.Add(f.fields)
	}
	if err != nil {
		return err
	}
	f.Reset()
	return nil
}
