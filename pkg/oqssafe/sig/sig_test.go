package sig_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/backend"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/secret"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/sig"
)

func newScheme(t *testing.T) *sig.Dilithium2 {
	t.Helper()
	lib, err := oqssafe.Open(oqssafe.Config{Backend: oqssafe.BackendAuto, Environment: oqssafe.EnvDevelopment})
	require.NoError(t, err)
	t.Cleanup(func() { _ = lib.Close() })
	return sig.NewDilithium2(lib)
}

func TestSignVerify(t *testing.T) {
	d := newScheme(t)

	pk, sk, err := d.Keypair()
	require.NoError(t, err)
	defer sk.Destroy()
	assert.Equal(t, 1312, pk.Len())

	sizes, err := d.Sizes()
	require.NoError(t, err)
	assert.Equal(t, sizes.SecretKey, sk.Len())

	s, err := d.Sign(sk, []byte("hello pqc"))
	require.NoError(t, err)
	assert.LessOrEqual(t, s.Len(), 2420)

	assert.NoError(t, d.Verify(pk, []byte("hello pqc"), s))

	if oqssafe.NativeBuilt() {
		err := d.Verify(pk, []byte("different"), s)
		assert.ErrorIs(t, err, oqssafe.ErrVerifyFail)
		assert.Equal(t, oqssafe.KindVerifyFail, oqssafe.KindOf(err))
	}
}

func TestMockVerifyIsLengthOnly(t *testing.T) {
	lib := oqssafe.Wrap(backend.NewMock(), nil)
	d := sig.NewDilithium2(lib)

	pk, sk, err := d.Keypair()
	require.NoError(t, err)
	defer sk.Destroy()
	assert.Equal(t, 2528, sk.Len())

	s, err := d.Sign(sk, []byte("hello pqc"))
	require.NoError(t, err)
	assert.Equal(t, 2420, s.Len())

	assert.NoError(t, d.Verify(pk, []byte("different"), s))
	assert.ErrorIs(t, d.Verify(pk, nil, sig.SignatureFromBytes(s.Bytes()[:2000])), oqssafe.ErrVerifyFail)
}

func TestInvalidLengths(t *testing.T) {
	d := newScheme(t)

	pk, sk, err := d.Keypair()
	require.NoError(t, err)
	defer sk.Destroy()
	s, err := d.Sign(sk, []byte("msg"))
	require.NoError(t, err)

	sizes, err := d.Sizes()
	require.NoError(t, err)
	shortSK, err := sig.SecretKeyFromBytes(make([]byte, sizes.SecretKey-1))
	require.NoError(t, err)
	defer shortSK.Destroy()

	tests := []struct {
		name string
		run  func() error
	}{
		{"short secret key", func() error { _, err := d.Sign(shortSK, []byte("msg")); return err }},
		{"nil secret key", func() error { _, err := d.Sign(nil, []byte("msg")); return err }},
		{"short public key", func() error {
			return d.Verify(sig.PublicKeyFromBytes(pk.Bytes()[:1311]), []byte("msg"), s)
		}},
		{"nil public key", func() error { return d.Verify(nil, []byte("msg"), s) }},
		{"oversized signature", func() error {
			return d.Verify(pk, []byte("msg"), sig.SignatureFromBytes(make([]byte, 2421)))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), oqssafe.ErrInvalidLength)
		})
	}
}

func TestDestroyedKeyCannotSign(t *testing.T) {
	d := newScheme(t)
	_, sk, err := d.Keypair()
	require.NoError(t, err)

	require.NoError(t, sk.Destroy())
	_, err = d.Sign(sk, []byte("hello pqc"))
	assert.ErrorIs(t, err, oqssafe.ErrInvalidLength)
}

func TestSecretKeyFromBytes(t *testing.T) {
	source := []byte{1, 2, 3, 4}
	sk, err := sig.SecretKeyFromBytes(source)
	require.NoError(t, err)
	defer sk.Destroy()

	assert.Equal(t, []byte{1, 2, 3, 4}, sk.Bytes())
	assert.Equal(t, []byte{0, 0, 0, 0}, source)
}

func TestClosedLibrary(t *testing.T) {
	lib := oqssafe.Wrap(backend.NewMock(), nil)
	require.NoError(t, lib.Close())

	d := sig.NewDilithium2(lib)
	_, _, err := d.Keypair()
	assert.ErrorIs(t, err, oqssafe.ErrNotImplemented)
	assert.ErrorIs(t, d.Verify(nil, nil, nil), oqssafe.ErrNotImplemented)
}

func TestConcurrentSigning(t *testing.T) {
	d := newScheme(t)
	baseline := secret.Live()

	pk, sk, err := d.Keypair()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			msg := []byte{byte(w)}
			for i := 0; i < 100; i++ {
				s, err := d.Sign(sk, msg)
				if !assert.NoError(t, err) {
					return
				}
				assert.NoError(t, d.Verify(pk, msg, s))
			}
		}(w)
	}
	wg.Wait()

	require.NoError(t, sk.Destroy())
	assert.Equal(t, baseline, secret.Live())
}
