package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEQBandUpdateValidateAcceptsInRangeValues(t *testing.T) {
	u := EQBandUpdate{Index: 3, FreqHz: 1000, GainDB: 6, Q: 1.0}
	assert.NoError(t, u.validate())
}

func TestEQBandUpdateValidateRejectsOutOfRangeFields(t *testing.T) {
	cases := []EQBandUpdate{
		{Index: -1, FreqHz: 1000, GainDB: 0, Q: 1},
		{Index: 10, FreqHz: 1000, GainDB: 0, Q: 1},
		{Index: 0, FreqHz: 10, GainDB: 0, Q: 1},
		{Index: 0, FreqHz: 30000, GainDB: 0, Q: 1},
		{Index: 0, FreqHz: 1000, GainDB: -30, Q: 1},
		{Index: 0, FreqHz: 1000, GainDB: 30, Q: 1},
		{Index: 0, FreqHz: 1000, GainDB: 0, Q: 0.01},
		{Index: 0, FreqHz: 1000, GainDB: 0, Q: 20},
	}
	for _, c := range cases {
		err := c.validate()
		assert.Error(t, err)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	}
}
