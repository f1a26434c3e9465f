package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFinderScopesByProfessional(t *testing.T) {
	ctx := context.Background()
	f := NewMemoryFinder()
	owner, other := uuid.New(), uuid.New()

	tag := f.PutTag(owner, TagView{Name: "Convênio", Color: "#ff8800"})
	c := f.PutClient(owner, ClientView{Name: "Ana", TagID: &tag.ID})

	got, err := f.FindClient(ctx, owner, c.ID)
	require.NoError(t, err)
	v, ok := got.Get()
	require.True(t, ok)
	assert.Equal(t, "Ana", v.Name)
	assert.Equal(t, "Convênio", v.TagName)
	assert.Equal(t, "#ff8800", v.TagColor)

	got, err = f.FindClient(ctx, other, c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPresent(), "client of another professional must not resolve")

	got, err = f.FindClient(ctx, owner, uuid.New())
	require.NoError(t, err)
	assert.False(t, got.IsPresent())

	tv, err := f.FindTag(ctx, other, tag.ID)
	require.NoError(t, err)
	assert.False(t, tv.IsPresent())
}
