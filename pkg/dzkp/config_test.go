package dzkp

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/ipa-dzkp/pkg/hash"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"sample", fp31Config, nil},
		{"default", DefaultConfig(field.Fp31), nil},
		{"largest block for Fp31", Config{Field: field.Fp31, BlockSize: 16, FinalBlockSize: 15}, nil},
		{"block too large", Config{Field: field.Fp31, BlockSize: 17, FinalBlockSize: 2}, ErrConfiguration},
		{"final block too large", Config{Field: field.Fp31, BlockSize: 4, FinalBlockSize: 16}, ErrConfiguration},
		{"block too small", Config{Field: field.Fp31, BlockSize: 1, FinalBlockSize: 1}, ErrConfiguration},
		{"no final block", Config{Field: field.Fp31, BlockSize: 4}, ErrConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
	assert.Error(t, Config{BlockSize: 4, FinalBlockSize: 2}.Validate())
}

func TestConfig_RoundCount(t *testing.T) {
	assert.Equal(t, 2, fp31Config.RoundCount(32))
	assert.Equal(t, 0, fp31Config.RoundCount(2))
	assert.Equal(t, 1, fp31Config.RoundCount(3))
	assert.Equal(t, 1, fp31Config.RoundCount(8))
	assert.Equal(t, 2, fp31Config.RoundCount(9))
	assert.Equal(t, 7, Config{BlockSize: 2, FinalBlockSize: 1}.RoundCount(100))
}

func TestConfig_CBOR(t *testing.T) {
	data, err := cbor.Marshal(fp31Config)
	require.NoError(t, err)
	var cfg Config
	require.NoError(t, cbor.Unmarshal(data, &cfg))
	assert.Equal(t, fp31Config, cfg)

	bad, err := cbor.Marshal(configCBOR{Field: "Fp31", BlockSize: 32, FinalBlockSize: 2})
	require.NoError(t, err)
	assert.ErrorIs(t, cbor.Unmarshal(bad, &cfg), ErrConfiguration)

	unknown, err := cbor.Marshal(configCBOR{Field: "Fp7", BlockSize: 2, FinalBlockSize: 1})
	require.NoError(t, err)
	assert.Error(t, cbor.Unmarshal(unknown, &cfg))
}

func TestConfig_Hash(t *testing.T) {
	a := hash.New(fp31Config).Sum()
	b := hash.New(Config{Field: field.Fp31, BlockSize: 4, FinalBlockSize: 1}).Sum()
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, hash.New(fp31Config).Sum())
}
