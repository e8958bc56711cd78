// Package schema is the static registry of per-kind treatment fields. It
// defines which fields exist for each kind, which are mandatory, and which
// participate in the composite identity key.
package schema

import "github.com/smallbiznis/vetledger/internal/treatment/domain"

// Widget hints for the form builder.
const (
	WidgetText     = "text"
	WidgetTextArea = "textarea"
	WidgetDate     = "date"
	WidgetSelect   = "select"
)

// FieldSpec describes one kind-specific form field.
type FieldSpec struct {
	Name         string
	Label        string
	Widget       string
	Required     bool
	Discriminant bool
}

var registry = map[domain.Kind][]FieldSpec{
	domain.KindConsultation: {
		{Name: "reason", Label: "Reason", Widget: WidgetText, Required: true, Discriminant: true},
		{Name: "diagnosis", Label: "Diagnosis", Widget: WidgetTextArea, Required: true},
		{Name: "prescription", Label: "Prescription", Widget: WidgetTextArea},
		{Name: "next_visit", Label: "Next Visit", Widget: WidgetDate},
	},
	domain.KindDeworming: {
		{Name: "dewormer", Label: "Dewormer", Widget: WidgetText, Required: true, Discriminant: true},
		{Name: "weight", Label: "Weight", Widget: WidgetText},
		{Name: "next_deworming", Label: "Next Deworming", Widget: WidgetDate},
	},
	domain.KindVaccination: {
		{Name: "vaccine", Label: "Vaccine", Widget: WidgetText, Required: true, Discriminant: true},
		{Name: "batch_no", Label: "Batch No.", Widget: WidgetText},
		{Name: "next_vaccination", Label: "Next Vaccination", Widget: WidgetDate},
	},
	domain.KindSurgery: {
		{Name: "surgery_type", Label: "Surgery Type", Widget: WidgetText, Required: true, Discriminant: true},
		{Name: "risk_status", Label: "Risk Status", Widget: WidgetSelect, Required: true, Discriminant: true},
		{Name: "anesthesia", Label: "Anesthesia", Widget: WidgetText},
		{Name: "next_follow_up", Label: "Next Follow-up", Widget: WidgetDate},
	},
	domain.KindGrooming: {
		{Name: "grooming_service", Label: "Service", Widget: WidgetText, Required: true, Discriminant: true},
		{Name: "groomer", Label: "Groomer", Widget: WidgetText},
		{Name: "remarks", Label: "Remarks", Widget: WidgetTextArea},
	},
	domain.KindOtherTreatment: {
		{Name: "treatment_name", Label: "Treatment", Widget: WidgetText, Required: true, Discriminant: true},
		{Name: "details", Label: "Details", Widget: WidgetTextArea, Required: true},
		{Name: "outcome", Label: "Outcome", Widget: WidgetTextArea},
	},
}

// FieldsFor returns the ordered field list for a kind. The returned slice is
// a copy; callers may not mutate the registry.
func FieldsFor(kind domain.Kind) []FieldSpec {
	specs, ok := registry[kind]
	if !ok {
		return nil
	}
	out := make([]FieldSpec, len(specs))
	copy(out, specs)
	return out
}

// DiscriminantsFor returns only the fields that participate in the composite
// identity key for a kind.
func DiscriminantsFor(kind domain.Kind) []FieldSpec {
	var out []FieldSpec
	for _, spec := range FieldsFor(kind) {
		if spec.Discriminant {
			out = append(out, spec)
		}
	}
	return out
}

// Known reports whether a field name belongs to the kind's schema.
func Known(kind domain.Kind, name string) bool {
	for _, spec := range FieldsFor(kind) {
		if spec.Name == name {
			return true
		}
	}
	return false
}
