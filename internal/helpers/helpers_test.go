package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeURIComponent(t *testing.T) {
	tests := map[string]string{
		"Jean Dupont":             "Jean%20Dupont",
		"Le Duc des Lombards, 42": "Le%20Duc%20des%20Lombards%2C%2042",
		"it's (really) fun!*":     "it's%20(really)%20fun!*",
		"a&b=c":                   "a%26b%3Dc",
		"Opéra":                   "Op%C3%A9ra",
	}
	for in, want := range tests {
		assert.Equal(t, want, EncodeURIComponent(in), in)
	}
}

func TestStringTrim(t *testing.T) {
	assert.Equal(t, "12", StringTrim(`  "12" `))
	assert.Equal(t, "abc", StringTrim("'abc'"))
	assert.Equal(t, "", StringTrim("   "))
}

func TestRemoveDuplicates(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, RemoveDuplicates([]string{"b", "a", "b", "c", "a"}))
	assert.Empty(t, RemoveDuplicates(nil))
}

func TestSession_SignAndValidate(t *testing.T) {
	secret := []byte("test-secret")
	now := time.Now()

	token, err := SignSession(secret, "device-1", time.Hour, now)
	require.NoError(t, err)

	claims, err := ValidateSession(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "device-1", claims.DeviceID())

	_, err = ValidateSession([]byte("other-secret"), token)
	assert.Error(t, err)

	expired, err := SignSession(secret, "device-1", time.Minute, now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = ValidateSession(secret, expired)
	assert.Error(t, err)

	_, err = SignSession(nil, "device-1", time.Hour, now)
	assert.Error(t, err)
}

func TestUploadImages_NoClient(t *testing.T) {
	_, err := NewCloudinaryUploader(nil).UploadImages(context.Background(), []string{"https://example.com/a.jpg"}, PostsFolder)
	assert.Error(t, err)
}
