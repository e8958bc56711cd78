package schema

import (
	"testing"

	"github.com/smallbiznis/vetledger/internal/treatment/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsForEveryKind(t *testing.T) {
	for _, kind := range domain.Kinds() {
		specs := FieldsFor(kind)
		require.NotEmpty(t, specs, "kind %s must declare fields", kind)

		names := make(map[string]bool, len(specs))
		discriminants := 0
		for _, spec := range specs {
			assert.False(t, names[spec.Name], "duplicate field %s in %s", spec.Name, kind)
			names[spec.Name] = true
			if spec.Discriminant {
				discriminants++
				assert.True(t, spec.Required, "discriminant %s in %s must be required", spec.Name, kind)
			}
		}
		assert.Greater(t, discriminants, 0, "kind %s needs at least one discriminant", kind)
	}
}

func TestFieldsForIsStable(t *testing.T) {
	first := FieldsFor(domain.KindSurgery)
	first[0].Name = "mutated"

	second := FieldsFor(domain.KindSurgery)
	assert.Equal(t, "surgery_type", second[0].Name)
}

func TestDiscriminantsAreSubsetOfFields(t *testing.T) {
	for _, kind := range domain.Kinds() {
		for _, disc := range DiscriminantsFor(kind) {
			assert.True(t, Known(kind, disc.Name))
		}
	}
}

func TestFieldsForUnknownKind(t *testing.T) {
	assert.Nil(t, FieldsFor(domain.Kind("XRAY")))
}

func TestSurgerySchema(t *testing.T) {
	specs := FieldsFor(domain.KindSurgery)
	require.Len(t, specs, 4)
	assert.Equal(t, "surgery_type", specs[0].Name)
	assert.True(t, specs[0].Discriminant)
	assert.Equal(t, "risk_status", specs[1].Name)
	assert.True(t, specs[1].Discriminant)
	assert.Equal(t, WidgetSelect, specs[1].Widget)
}

func TestRecordCoversEverySchemaField(t *testing.T) {
	var record domain.Record
	for _, kind := range domain.Kinds() {
		for _, spec := range FieldsFor(kind) {
			_, ok := record.Field(spec.Name)
			assert.True(t, ok, "record has no accessor for %s", spec.Name)
			assert.True(t, record.SetField(spec.Name, "x"), "record has no setter for %s", spec.Name)
		}
	}
}
