package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestOptInStatus_Toggle(t *testing.T) {
	assert.Equal(t, OptInNo, OptInYes.Toggle())
	assert.Equal(t, OptInYes, OptInNo.Toggle())
}

func TestOptInStatus_ToggleIsItsOwnInverse(t *testing.T) {
	for _, s := range []OptInStatus{OptInYes, OptInNo} {
		assert.Equal(t, s, s.Toggle().Toggle())
	}
}

func TestOptInStatus_UnmarshalJSON_LegacyBoolean(t *testing.T) {
	var s OptInStatus
	require.NoError(t, json.Unmarshal([]byte(`true`), &s))
	assert.Equal(t, OptInYes, s)

	require.NoError(t, json.Unmarshal([]byte(`false`), &s))
	assert.Equal(t, OptInNo, s)
}

func TestOptInStatus_UnmarshalJSON_Strings(t *testing.T) {
	tests := []struct {
		input string
		want  OptInStatus
	}{
		{`"yes"`, OptInYes},
		{`"no"`, OptInNo},
		{`"YES"`, OptInYes},
		{`"true"`, OptInYes},
		{`"false"`, OptInNo},
		{`""`, OptInNo},
		{`null`, OptInNo},
	}

	for _, tt := range tests {
		var s OptInStatus
		require.NoError(t, json.Unmarshal([]byte(tt.input), &s), "input %s", tt.input)
		assert.Equal(t, tt.want, s, "input %s", tt.input)
	}
}

func TestOptInStatus_UnmarshalJSON_Invalid(t *testing.T) {
	var s OptInStatus
	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`42`), &s))
}

func TestOptInStatus_BSONRoundTrip(t *testing.T) {
	type doc struct {
		Status OptInStatus `bson:"opt_in_status"`
	}

	data, err := bson.Marshal(doc{Status: OptInYes})
	require.NoError(t, err)

	var out doc
	require.NoError(t, bson.Unmarshal(data, &out))
	assert.Equal(t, OptInYes, out.Status)
}

func TestOptInStatus_BSONLegacyBoolean(t *testing.T) {
	// Records written before the representation was unified carry a raw
	// boolean in opt_in_status.
	legacy, err := bson.Marshal(bson.M{"opt_in_status": true})
	require.NoError(t, err)

	var out struct {
		Status OptInStatus `bson:"opt_in_status"`
	}
	require.NoError(t, bson.Unmarshal(legacy, &out))
	assert.Equal(t, OptInYes, out.Status)

	// A stored boolean true toggles to "no", then back to "yes"
	assert.Equal(t, OptInNo, out.Status.Toggle())
	assert.Equal(t, OptInYes, out.Status.Toggle().Toggle())
}

func TestConsentRecord_JSONFieldNames(t *testing.T) {
	record := ConsentRecord{
		CustomerID:  "cust-1",
		FirstName:   "Ana",
		PhoneNumber: "+15551234567",
		OptInStatus: OptInYes,
		Timestamp:   "2026-08-31T12:00:00-04:00",
		IPAddress:   "8.8.8.8",
		City:        "Mountain View",
		Country:     "United States",
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "cust-1", out["customer_id"])
	assert.Equal(t, "yes", out["opt_in_status"])
	assert.Equal(t, "8.8.8.8", out["ip_address"])
}
