package handlers

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidIdentity(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("identity", validIdentity))

	tests := []struct {
		name    string
		account string
		valid   bool
	}{
		{"ghost name", "uncle_bob", true},
		{"cyrillic ghost name", "дядя.боб", true},
		{"username mention", "@uncle_bob", true},
		{"numeric mention", "@123456789", true},
		{"short numeric mention", "@123", true},
		{"digits-only ghost", "12345", false},
		{"too short ghost", "ab", false},
		{"short non-numeric mention", "@ab", false},
		{"bare at sign", "@", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Var(tt.account, "identity")
			if tt.valid {
				assert.NoError(t, err, tt.account)
			} else {
				assert.Error(t, err, tt.account)
			}
		})
	}
}
