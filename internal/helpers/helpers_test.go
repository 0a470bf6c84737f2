package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("coralcreek!1")
	require.NoError(t, err)

	assert.NotEqual(t, "coralcreek!1", hash)
	assert.True(t, VerifyPassword(hash, "coralcreek!1"))
	assert.False(t, VerifyPassword(hash, "coralcreek!2"))
}

func TestIsPasswordStrong(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"short!1", false},
		{"longenoughbutplain", false},
		{"exactly8!", true},
		{"nospecial123", false},
		{"goodpass#1", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsPasswordStrong(tc.password), "password %q", tc.password)
	}
}

func TestGenerateOTPFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, otp, 6)
		for _, r := range otp {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[otp] = true
	}
	assert.Greater(t, len(seen), 1, "codes should vary")
}
