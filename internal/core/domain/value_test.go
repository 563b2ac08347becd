package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.phenora.dev/phenoql/internal/core/domain"
)

func TestValueTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    domain.Value
		want bool
	}{
		{"absent", domain.Absent(), false},
		{"true", domain.BoolValue(true), true},
		{"false", domain.BoolValue(false), false},
		{"zero", domain.NumberValue(0), false},
		{"nonzero", domain.NumberValue(2.4), true},
		{"empty string", domain.StringValue(""), false},
		{"string", domain.StringValue("fever"), true},
		{"bare record", domain.RecordValue(map[string]domain.Value{
			"term": domain.StringValue("sepsis"),
		}), true},
		{"record with false value field", domain.RecordValue(map[string]domain.Value{
			"value": domain.BoolValue(false),
		}), false},
		{"record with numeric value field", domain.RecordValue(map[string]domain.Value{
			"value": domain.NumberValue(98.6),
		}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.v.Truthy())
		})
	}
}

func TestValueEqualAbsent(t *testing.T) {
	// Absent equals nothing, not even another absent.
	require.False(t, domain.Absent().Equal(domain.Absent()))
	require.False(t, domain.Absent().Equal(domain.BoolValue(false)))
	require.True(t, domain.NumberValue(3).Equal(domain.NumberValue(3)))
	require.False(t, domain.NumberValue(3).Equal(domain.StringValue("3")))
}

func TestValueCompare(t *testing.T) {
	cmp, err := domain.NumberValue(1).Compare(domain.NumberValue(2))
	require.NoError(t, err)
	require.Equal(t, -1, cmp)

	cmp, err = domain.NumberValue(2).Compare(domain.NumberValue(2))
	require.NoError(t, err)
	require.Equal(t, 0, cmp)

	_, err = domain.StringValue("a").Compare(domain.NumberValue(1))
	require.ErrorIs(t, err, domain.ErrTypeMismatch)

	_, err = domain.BoolValue(true).Compare(domain.BoolValue(false))
	require.ErrorIs(t, err, domain.ErrTypeMismatch)
}

func TestValueField(t *testing.T) {
	rec := domain.RecordValue(map[string]domain.Value{
		"value": domain.NumberValue(7.1),
	})
	require.Equal(t, domain.NumberValue(7.1), rec.Field("value"))
	require.True(t, rec.Field("missing").IsAbsent())
	require.True(t, domain.NumberValue(1).Field("value").IsAbsent())
}

func TestValueCanonicalIsOrderIndependent(t *testing.T) {
	a := domain.RecordValue(map[string]domain.Value{
		"term":  domain.StringValue("sepsis"),
		"value": domain.NumberValue(1),
	})
	b := domain.RecordValue(map[string]domain.Value{
		"value": domain.NumberValue(1),
		"term":  domain.StringValue("sepsis"),
	})
	require.Equal(t, a.Canonical(), b.Canonical())
	require.NotEqual(t, a.Canonical(), domain.StringValue("sepsis").Canonical())
}

func TestValueJSONRoundTrip(t *testing.T) {
	original := domain.RecordValue(map[string]domain.Value{
		"value":    domain.BoolValue(true),
		"term":     domain.StringValue("septic shock"),
		"start":    domain.NumberValue(14),
		"negated":  domain.BoolValue(false),
		"sentence": domain.StringValue("pt in septic shock"),
	})

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded domain.Value
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.True(t, original.Equal(decoded))
	require.Equal(t, domain.KindRecord, decoded.Kind)
}

func TestValueJSONAbsent(t *testing.T) {
	data, err := json.Marshal(domain.Absent())
	require.NoError(t, err)

	var decoded domain.Value
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.True(t, decoded.IsAbsent())
}
