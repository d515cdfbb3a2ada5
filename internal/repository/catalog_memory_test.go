package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notaria4/notaria4/internal/domain"
)

func TestMemoryCatalog(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCatalog()

	require.NoError(t, c.Ping(ctx))

	types, err := c.ListPropertyTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, len(DefaultPropertyTypes))
	for i := 1; i < len(types); i++ {
		assert.Less(t, types[i-1].Code, types[i].Code)
	}

	pt, err := c.FindPropertyType(ctx, "01")
	require.NoError(t, err)
	require.NotNil(t, pt)
	assert.Equal(t, "Terreno", pt.Name)

	missing, err := c.FindPropertyType(ctx, "99")
	require.NoError(t, err)
	assert.Nil(t, missing)

	pc, err := c.FindPostalCode(ctx, "28200")
	require.NoError(t, err)
	require.NotNil(t, pc)
	assert.Equal(t, "06", pc.StateKey)

	c.AddPostalCode(domain.PostalCode{Code: "44100", StateKey: "14", Municipality: "Guadalajara"})
	pc, err = c.FindPostalCode(ctx, "44100")
	require.NoError(t, err)
	require.NotNil(t, pc)
	assert.Equal(t, "14", pc.StateKey)

	pc, err = c.FindPostalCode(ctx, "00000")
	require.NoError(t, err)
	assert.Nil(t, pc)
}
