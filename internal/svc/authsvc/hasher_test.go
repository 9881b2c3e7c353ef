package authsvc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/weatherapp/internal/svc/authsvc"
)

func TestSHA256Hasher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		want     string
	}{
		{
			name:     "empty",
			password: "",
			want:     "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "password",
			password: "password",
			want:     "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8",
		},
		{
			name:     "abc",
			password: "abc",
			want:     "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
	}

	hasher := authsvc.SHA256Hasher{}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hasher.Hash(tt.password)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, 64)
			assert.Equal(t, got, hasher.Hash(tt.password))
		})
	}

	assert.NotEqual(t, hasher.Hash("pw1"), hasher.Hash("pw2"))
}

func TestArgon2idHasher(t *testing.T) {
	t.Parallel()

	hasher, err := authsvc.NewArgon2idHasher("pepper")
	require.NoError(t, err)

	digest := hasher.Hash("pw1")
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, hasher.Hash("pw1"))
	assert.NotEqual(t, digest, hasher.Hash("pw2"))
	assert.NotEqual(t, digest, authsvc.SHA256Hasher{}.Hash("pw1"))

	other, err := authsvc.NewArgon2idHasher("other pepper")
	require.NoError(t, err)
	assert.NotEqual(t, digest, other.Hash("pw1"))
}

func TestNewHasher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     authsvc.AuthConfig
		wantErr error
	}{
		{name: "sha256", cfg: authsvc.AuthConfig{Hasher: "sha256"}},
		{name: "argon2id", cfg: authsvc.AuthConfig{Hasher: "argon2id", Pepper: "s3cret"}},
		{name: "argon2id without pepper", cfg: authsvc.AuthConfig{Hasher: "argon2id"}, wantErr: authsvc.ErrNoPepper},
		{name: "unknown", cfg: authsvc.AuthConfig{Hasher: "md5"}, wantErr: authsvc.ErrUnknownHasher},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hasher, err := authsvc.NewHasher(tt.cfg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, hasher)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, hasher)
		})
	}
}
