package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberUnmarshal(t *testing.T) {
	cases := map[string]float64{
		`12.5`:        12.5,
		`"7"`:         7,
		`" 3.25 "`:    3.25,
		`"abc"`:       0,
		`""`:          0,
		`true`:        0,
		`null`:        0,
		`"NaN"`:       0,
		`"Inf"`:       0,
		`"-Infinity"`: 0,
		`"1e400"`:     0,
	}

	for input, want := range cases {
		t.Run(input, func(t *testing.T) {
			var payload struct {
				Value Number `json:"value"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"value":`+input+`}`), &payload))
			assert.Equal(t, want, payload.Value.Float64())
		})
	}
}

func TestNumberPtr(t *testing.T) {
	var payload struct {
		Tax *Number `json:"tax"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &payload))
	assert.Nil(t, payload.Tax.Ptr())

	require.NoError(t, json.Unmarshal([]byte(`{"tax":"18"}`), &payload))
	require.NotNil(t, payload.Tax.Ptr())
	assert.Equal(t, 18.0, *payload.Tax.Ptr())
}

func TestStatusValidate(t *testing.T) {
	assert.NoError(t, PaymentPaid.Validate())
	assert.Error(t, PaymentStatus("paid").Validate())
	assert.NoError(t, OrderShipped.Validate())
	assert.Error(t, OrderStatus("Lost").Validate())
	assert.NoError(t, DebitNoteRejected.Validate())
	assert.Error(t, DebitNoteStatus("").Validate())
	assert.NoError(t, SupplierInactive.Validate())
	assert.Error(t, SupplierStatus("archived").Validate())
}

func TestUserPasswordHashNotSerialized(t *testing.T) {
	raw, err := json.Marshal(User{Name: "a", PasswordHash: "secret"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
}
