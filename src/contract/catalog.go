package contract

import (
	"sync"

	"price-quoter/src/models"
)

// builtinPositions is the slot each contract type renders into.
var builtinPositions = map[string]string{
	"ASIAND":       "bottom",
	"ASIANU":       "top",
	"CALL":         "top",
	"CALLE":        "top",
	"DIGITDIFF":    "bottom",
	"DIGITEVEN":    "top",
	"DIGITMATCH":   "top",
	"DIGITODD":     "bottom",
	"DIGITOVER":    "top",
	"DIGITUNDER":   "bottom",
	"EXPIRYMISS":   "bottom",
	"EXPIRYMISSE":  "bottom",
	"EXPIRYRANGE":  "top",
	"EXPIRYRANGEE": "top",
	"NOTOUCH":      "bottom",
	"ONETOUCH":     "top",
	"PUT":          "bottom",
	"PUTE":         "bottom",
	"RANGE":        "top",
	"UPORDOWN":     "bottom",
	"SPREADU":      "top",
	"SPREADD":      "bottom",
}

// -----------------------------------------------------------------------------
// Catalog
// -----------------------------------------------------------------------------

// Catalog holds the offered forms and which form is active.
type Catalog struct {
	mu        sync.RWMutex
	form      string
	formName  string
	forms     map[string]map[string]string
	positions map[string]string
}

// -----------------------------------------------------------------------------

func NewCatalog(cfg models.MTradingConfig) *Catalog {
	c := &Catalog{
		form:      cfg.Form,
		formName:  cfg.FormName,
		forms:     make(map[string]map[string]string),
		positions: make(map[string]string, len(builtinPositions)+len(cfg.Positions)),
	}
	for form, types := range cfg.Forms {
		labels := make(map[string]string, len(types))
		for t, l := range types {
			labels[t] = l
		}
		c.forms[form] = labels
	}
	for t, p := range builtinPositions {
		c.positions[t] = p
	}
	for t, p := range cfg.Positions {
		c.positions[t] = p
	}
	return c
}

// -----------------------------------------------------------------------------

func (c *Catalog) Form() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.form
}

func (c *Catalog) FormName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.formName
}

// SetForm switches the active form and sub-form.
func (c *Catalog) SetForm(form, formName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = form
	c.formName = formName
}

// -----------------------------------------------------------------------------

// ContractTypes returns a copy of the labels offered by form.
func (c *Catalog) ContractTypes(form string) map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	types, ok := c.forms[form]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(types))
	for t, l := range types {
		out[t] = l
	}
	return out
}

// HasForm reports whether form is configured.
func (c *Catalog) HasForm(form string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.forms[form]
	return ok
}

// -----------------------------------------------------------------------------

func (c *Catalog) Position(contractType string) string {
	if contractType == "" {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.positions[contractType]
}
