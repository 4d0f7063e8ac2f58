package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	snapshot := JSON{"card": map[string]interface{}{"brand": "visa", "last4": "4242"}}

	value, err := snapshot.Value()
	require.NoError(t, err)

	var scanned JSON
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, "visa", (&Dispute{PaymentMethodDetails: scanned}).CardBrand())
	assert.Equal(t, "4242", (&Dispute{PaymentMethodDetails: scanned}).CardLast4())
}

func TestJSONNil(t *testing.T) {
	var snapshot JSON

	value, err := snapshot.Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	scanned := JSON{"stale": true}
	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)
}

func TestJSONScanString(t *testing.T) {
	var scanned JSON
	require.NoError(t, scanned.Scan(`{"card":{"brand":"amex"}}`))
	assert.Equal(t, "amex", (&Dispute{PaymentMethodDetails: scanned}).CardBrand())
}

func TestJSONScanUnsupported(t *testing.T) {
	var scanned JSON
	assert.Error(t, scanned.Scan(42))
}
