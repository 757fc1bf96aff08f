package keys_test

import (
	"math/bits"
	"testing"

	. "github.com/coreman2200/pgb1/internal/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMasksAreSingleDistinctBits(t *testing.T) {
	seen := map[uint32]Key{}
	var all uint32
	for _, k := range All() {
		m := k.Mask()
		assert.Equal(t, 1, bits.OnesCount32(m), "%s should own exactly one bit", k)
		if prev, dup := seen[m]; dup {
			t.Fatalf("%s and %s share mask 0x%08x", prev, k, m)
		}
		seen[m] = k
		all |= m
	}
	assert.Equal(t, AllMask, all)
}

func TestLEDIndicesCoverStrip(t *testing.T) {
	seen := map[int]Key{}
	for _, k := range All() {
		if k.Nav() {
			assert.Equal(t, 0, k.LED(), "%s", k)
			continue
		}
		led := k.LED()
		require.GreaterOrEqual(t, led, 0)
		require.Less(t, led, LEDCount)
		if prev, dup := seen[led]; dup {
			t.Fatalf("%s and %s share LED %d", prev, k, led)
		}
		seen[led] = k
	}
	assert.Len(t, seen, LEDCount)
}

var TestDocumentedEntries = []struct {
	Key  Key
	Mask uint32
	LED  int
}{
	{Track, 0x10000000, 4},
	{B, 0x00000001, 0},
	{Left, 0x20000000, 0},
	{Rec, 0x04000000, 23},
	{K9, 0x00200000, 15},
	{K16, 0x00100000, 22},
}

func TestTableMatchesDocumentedMasks(t *testing.T) {
	for _, v := range TestDocumentedEntries {
		t.Run(v.Key.String(), func(t *testing.T) {
			assert.Equal(t, v.Mask, v.Key.Mask())
			assert.Equal(t, v.LED, v.Key.LED())
		})
	}
}

func TestParse(t *testing.T) {
	k, err := Parse("up")
	require.NoError(t, err)
	assert.Equal(t, Up, k)

	k, err = Parse("K12")
	require.NoError(t, err)
	assert.Equal(t, K12, k)

	_, err = Parse("SHIFT")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestMasked(t *testing.T) {
	assert.Empty(t, Masked(0))
	assert.Equal(t, []Key{Up, B}, Masked(Up.Mask()|B.Mask()))
	assert.Len(t, Masked(AllMask), Count)
}

func TestString(t *testing.T) {
	assert.Equal(t, "MENU", Menu.String())
	assert.Equal(t, "Key(99)", Key(99).String())
}

func TestUndeclaredKeyIsEmpty(t *testing.T) {
	for _, k := range []Key{Count, 99, 255} {
		assert.NotPanics(t, func() {
			assert.Zero(t, k.Mask())
			assert.Zero(t, k.LED())
			assert.False(t, k.Nav())
		}, "%s", k)
	}
}
