package form

import (
	"testing"

	"price-quoter/src/models"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool { return &b }

func TestNewFormSeedsPresets(t *testing.T) {
	f := NewForm([]models.MFieldPreset{
		{ID: "amount", Value: "10"},
		{ID: "barrier", Hidden: true},
		{ID: "expiry_date", Attrs: map[string]string{"data-value": "2024-01-05"}},
	})

	amount, ok := f.Field("amount")
	if !ok || amount.Value != "10" || !amount.Visible {
		t.Errorf("amount = %+v, ok=%v", amount, ok)
	}
	barrier, _ := f.Field("barrier")
	if barrier.Visible {
		t.Error("hidden preset must not be visible")
	}
	expiry, _ := f.Field("expiry_date")
	if expiry.Attr("data-value") != "2024-01-05" {
		t.Errorf("attr = %q", expiry.Attr("data-value"))
	}
	if _, ok := f.Field("missing"); ok {
		t.Error("unknown field must not exist")
	}
}

func TestFieldReturnsCopy(t *testing.T) {
	f := NewForm([]models.MFieldPreset{{ID: "currency", Attrs: map[string]string{"value": "USD"}}})
	field, _ := f.Field("currency")
	field.Attrs["value"] = "EUR"

	again, _ := f.Field("currency")
	if again.Attr("value") != "USD" {
		t.Error("mutating a returned field leaked into the form")
	}
}

func TestApplyValidates(t *testing.T) {
	f := NewForm([]models.MFieldPreset{{ID: "amount", Value: "10"}, {ID: "prediction", Hidden: true}})

	errs := f.Apply(map[string]models.MFieldUpdate{
		"amount": {Value: strPtr("abc")},
	})
	if errs["amount"] == "" {
		t.Fatalf("expected amount error, got %v", errs)
	}
	if !f.HasVisibleErrors() {
		t.Error("visible invalid field must be reported")
	}

	errs = f.Apply(map[string]models.MFieldUpdate{
		"amount": {Value: strPtr("25.5")},
	})
	if len(errs) != 0 || f.HasVisibleErrors() {
		t.Errorf("unexpected errors after fix: %v", errs)
	}
}

func TestHiddenFieldsAreNotValidated(t *testing.T) {
	f := NewForm([]models.MFieldPreset{{ID: "prediction", Value: "42", Hidden: true}})
	if errs := f.Validate(); len(errs) != 0 {
		t.Errorf("hidden field validated: %v", errs)
	}

	f.Apply(map[string]models.MFieldUpdate{"prediction": {Visible: boolPtr(true)}})
	if !f.HasVisibleErrors() {
		t.Error("two digit prediction must fail once visible")
	}
}

func TestValidationRules(t *testing.T) {
	tests := []struct {
		id    string
		value string
		ok    bool
	}{
		{"amount", "10", true},
		{"amount", "0", false},
		{"amount", "-5", false},
		{"duration_amount", "08", true},
		{"duration_amount", "1.5", false},
		{"duration_amount", "0", false},
		{"prediction", "7", true},
		{"prediction", "x", false},
		{"barrier", "+0.25", true},
		{"barrier_low", "-1.5", true},
		{"barrier_high", "up", false},
		{"time_start", "09:30", true},
		{"time_start", "9h30", false},
		{"underlying", "anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.id+"="+tt.value, func(t *testing.T) {
			f := NewForm([]models.MFieldPreset{{ID: tt.id, Value: tt.value}})
			errs := f.Validate()
			if got := errs[tt.id] == ""; got != tt.ok {
				t.Errorf("valid = %v, want %v (errs %v)", got, tt.ok, errs)
			}
		})
	}
}

func TestExpiryDateAttribute(t *testing.T) {
	f := NewForm([]models.MFieldPreset{{ID: "expiry_date", Attrs: map[string]string{"data-value": "05/01/2024"}}})
	if errs := f.Validate(); errs["expiry_date"] == "" {
		t.Error("malformed data-value must fail")
	}
	f.SetAttr("expiry_date", "data-value", "2024-01-05")
	if errs := f.Validate(); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestFieldsSorted(t *testing.T) {
	f := NewForm(nil)
	f.Set("underlying", "R_100")
	f.Set("amount", "10")
	f.SetVisible("barrier", false)

	fields := f.Fields()
	if len(fields) != 3 || fields[0].ID != "amount" || fields[2].ID != "underlying" {
		t.Errorf("fields = %+v", fields)
	}
}
