package models

// MField is the state of one form input.
type MField struct {
	ID      string            `json:"id"`
	Value   string            `json:"value"`
	Attrs   map[string]string `json:"attrs,omitempty"`
	Visible bool              `json:"visible"`
	Error   string            `json:"error,omitempty"`
}

// Attr returns an attribute value, empty if unset.
func (f MField) Attr(name string) string {
	if f.Attrs == nil {
		return ""
	}
	return f.Attrs[name]
}

// MFieldUpdate is a partial change to a field; nil members are left as is.
type MFieldUpdate struct {
	Value   *string           `json:"value,omitempty"`
	Attrs   map[string]string `json:"attrs,omitempty"`
	Visible *bool             `json:"visible,omitempty"`
}
