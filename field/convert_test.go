package field

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkfoundry/plonk-compiler/field/bls12381"
	"github.com/zkfoundry/plonk-compiler/field/bn254"
	"github.com/zkfoundry/plonk-compiler/field/tiny"
)

func TestConvertRoundTrip(t *testing.T) {
	from := &bn254.Field{}
	to := &bls12381.Field{}

	for _, v := range []int64{0, 1, 42, 1 << 62} {
		e := from.FromInterface(v)
		r, err := Convert(from, to, e)
		require.NoError(t, err)
		require.Equal(t, v, to.ToBigInt(r).Int64())

		back, err := Convert(to, from, r)
		require.NoError(t, err)
		require.Equal(t, e, back)
	}
}

func TestConvertLargeValue(t *testing.T) {
	from := &bn254.Field{}
	to := &bls12381.Field{}

	// the full bn254 range decodes canonically under the larger bls12-381
	// modulus
	v := new(big.Int).Sub(bn254.ScalarField, big.NewInt(1))
	r, err := Convert(from, to, from.FromInterface(v))
	require.NoError(t, err)
	require.Equal(t, v.String(), to.ToBigInt(r).String())
}

func TestConvertDecodeError(t *testing.T) {
	from := &bls12381.Field{}
	to := &bn254.Field{}

	// a canonical bls12-381 value at the bn254 modulus is out of range on
	// the destination side and must not be reduced silently
	e := from.FromInterface(bn254.ScalarField)
	_, err := Convert(from, to, e)
	var target DecodeError
	require.ErrorAs(t, err, &target)

	// one below the modulus still decodes
	below := new(big.Int).Sub(bn254.ScalarField, big.NewInt(1))
	r, err := Convert(from, to, from.FromInterface(below))
	require.NoError(t, err)
	require.Equal(t, below.String(), to.ToBigInt(r).String())
}

func TestConvertWidthMismatch(t *testing.T) {
	_, err := Convert(&tiny.Field{}, &bn254.Field{}, (&tiny.Field{}).One())
	var target IncompatibleWidthError
	require.ErrorAs(t, err, &target)
	require.Equal(t, 8, target.FromLen)
	require.Equal(t, 32, target.ToLen)
}

func TestConvertIdentity(t *testing.T) {
	f := &tiny.Field{}
	e := f.FromInterface(42)
	r, err := Convert(f, f, e)
	require.NoError(t, err)
	require.Equal(t, e, r)
}

func TestGetFieldFromOrder(t *testing.T) {
	require.IsType(t, &bn254.Field{}, GetFieldFromOrder(bn254.ScalarField))
	require.IsType(t, &bls12381.Field{}, GetFieldFromOrder(bls12381.ScalarField))
	require.IsType(t, &tiny.Field{}, GetFieldFromOrder(big.NewInt(97)))

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unknown order")
		}
	}()
	GetFieldFromOrder(big.NewInt(101))
}

func TestCanonicalBytes(t *testing.T) {
	for _, f := range []Field{&bn254.Field{}, &bls12381.Field{}, &tiny.Field{}} {
		e := f.FromInterface(42)
		b := f.ToCanonicalBytes(e)
		require.Len(t, b, f.SerializedLen())
		// little endian
		require.EqualValues(t, 42, b[0])

		r, ok := f.FromCanonicalBytes(b)
		require.True(t, ok)
		require.Equal(t, e, r)

		_, ok = f.FromCanonicalBytes(b[:len(b)-1])
		require.False(t, ok)
	}
}
