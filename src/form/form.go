package form

import (
	"sort"
	"sync"

	"price-quoter/src/models"

	"github.com/go-playground/validator/v10"
)

// -----------------------------------------------------------------------------
// Form
// -----------------------------------------------------------------------------

// Form is the in-process trading form. All methods are safe for concurrent use.
type Form struct {
	mu       sync.RWMutex
	fields   map[string]*models.MField
	validate *validator.Validate
}

// -----------------------------------------------------------------------------

func NewForm(presets []models.MFieldPreset) *Form {
	f := &Form{
		fields:   make(map[string]*models.MField),
		validate: validator.New(),
	}
	for _, p := range presets {
		field := &models.MField{
			ID:      p.ID,
			Value:   p.Value,
			Visible: !p.Hidden,
			Attrs:   make(map[string]string),
		}
		for k, v := range p.Attrs {
			field.Attrs[k] = v
		}
		f.fields[p.ID] = field
	}
	return f
}

// -----------------------------------------------------------------------------

// Field returns a copy of the field with the given id.
func (f *Form) Field(id string) (models.MField, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	field, ok := f.fields[id]
	if !ok {
		return models.MField{}, false
	}
	return copyField(field), true
}

// -----------------------------------------------------------------------------

// Fields returns copies of every field ordered by id.
func (f *Form) Fields() []models.MField {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]models.MField, 0, len(f.fields))
	for _, field := range f.fields {
		out = append(out, copyField(field))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// -----------------------------------------------------------------------------

// Set changes a field value, creating a visible field if it does not exist.
func (f *Form) Set(id, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensure(id).Value = value
}

// SetVisible shows or hides a field.
func (f *Form) SetVisible(id string, visible bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensure(id).Visible = visible
}

// SetAttr sets one attribute of a field.
func (f *Form) SetAttr(id, name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensure(id).Attrs[name] = value
}

// -----------------------------------------------------------------------------

// Apply merges a batch of partial updates, then revalidates the form.
// It returns the validation errors keyed by field id.
func (f *Form) Apply(updates map[string]models.MFieldUpdate) map[string]string {
	f.mu.Lock()
	for id, u := range updates {
		field := f.ensure(id)
		if u.Value != nil {
			field.Value = *u.Value
		}
		if u.Visible != nil {
			field.Visible = *u.Visible
		}
		for k, v := range u.Attrs {
			field.Attrs[k] = v
		}
	}
	f.mu.Unlock()

	return f.Validate()
}

// -----------------------------------------------------------------------------

// HasVisibleErrors reports whether a visible field failed validation.
func (f *Form) HasVisibleErrors() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, field := range f.fields {
		if field.Visible && field.Error != "" {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------

// ensure must be called with mu held.
func (f *Form) ensure(id string) *models.MField {
	field, ok := f.fields[id]
	if !ok {
		field = &models.MField{ID: id, Visible: true, Attrs: make(map[string]string)}
		f.fields[id] = field
	}
	if field.Attrs == nil {
		field.Attrs = make(map[string]string)
	}
	return field
}

func copyField(field *models.MField) models.MField {
	out := *field
	out.Attrs = make(map[string]string, len(field.Attrs))
	for k, v := range field.Attrs {
		out.Attrs[k] = v
	}
	return out
}
