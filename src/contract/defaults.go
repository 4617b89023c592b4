package contract

import "sync"

// Defaults remembers form values across form changes, e.g. expiry_time.
type Defaults struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewDefaults(seed map[string]string) *Defaults {
	d := &Defaults{values: make(map[string]string, len(seed))}
	for k, v := range seed {
		d.values[k] = v
	}
	return d
}

func (d *Defaults) Get(key string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.values[key]
}

func (d *Defaults) Set(key, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if value == "" {
		delete(d.values, key)
		return
	}
	d.values[key] = value
}
