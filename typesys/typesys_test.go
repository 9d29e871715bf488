package typesys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/elderberry/types"
)

type ticker struct {
	Symbol    string `cramberry:"1"`
	Precision uint32 `cramberry:"2"`
}

type other struct {
	Name string `cramberry:"1"`
}

func TestRegistryDeserialize(t *testing.T) {
	r := NewRegistry()
	id, err := r.Register("Ticker", ticker{})
	require.NoError(t, err)
	assert.Equal(t, SemIdOf("Ticker"), id)

	data, err := Encode(ticker{Symbol: "TICK", Precision: 8})
	require.NoError(t, err)
	require.NoError(t, r.Deserialize(id, data))

	v, err := r.Decode(id, data)
	require.NoError(t, err)
	assert.Equal(t, &ticker{Symbol: "TICK", Precision: 8}, v)

	name, ok := r.Name(id)
	require.True(t, ok)
	assert.Equal(t, "Ticker", name)
}

func TestRegistryRejects(t *testing.T) {
	r := NewRegistry()
	id := r.MustRegister("Ticker", &ticker{})

	assert.ErrorIs(t, r.Deserialize(SemIdOf("Missing"), nil), ErrUnknownType)

	data, err := Encode(ticker{Symbol: "TICK", Precision: 8})
	require.NoError(t, err)
	assert.Error(t, r.Deserialize(id, append(data, 0xFF, 0xFF, 0xFF)))
	assert.Error(t, r.Deserialize(id, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}))
}

func TestRegisterConflicts(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register("Ticker", ticker{})
	require.NoError(t, err)
	_, err = r.Register("Ticker", &ticker{})
	assert.NoError(t, err, "re-registering the same type is allowed")
	_, err = r.Register("Ticker", other{})
	assert.Error(t, err)
	_, err = r.Register("Nil", nil)
	assert.Error(t, err)

	r.MustRegister("Other", other{})
	assert.Equal(t, []string{"Other", "Ticker"}, r.Names())
	assert.Len(t, r.Ids(), 2)
}

func TestSemIdDistinct(t *testing.T) {
	assert.NotEqual(t, SemIdOf("A"), SemIdOf("B"))
	assert.Equal(t, SemIdOf("A"), SemIdOf("A"))
	assert.NotEqual(t, types.SemId{}, SemIdOf(""))
}
