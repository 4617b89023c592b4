package interfaces

// -----------------------------------------------------------------------------
// IContractCatalog describes the contract types offered by the active form.
// -----------------------------------------------------------------------------

type IContractCatalog interface {
	// Form is the active form, e.g. "risefall" or "digits".
	Form() string

	// FormName is the active sub-form, e.g. "matchdiff" for digits.
	FormName() string

	// ContractTypes maps contract type to display label for form.
	ContractTypes(form string) map[string]string

	// Position is the slot a contract type renders into, empty if none.
	Position(contractType string) string
}

// -----------------------------------------------------------------------------
// IDefaults holds user remembered form defaults.
// -----------------------------------------------------------------------------

type IDefaults interface {
	Get(key string) string
}
