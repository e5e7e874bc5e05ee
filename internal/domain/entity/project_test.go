package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProjectDefaults(t *testing.T) {
	p := NewProject(7, "My Site")

	assert.Equal(t, int64(7), p.OwnerID)
	assert.Equal(t, "My Site", p.Name)
	assert.Equal(t, DefaultWebsiteType, p.WebsiteType)
	assert.Equal(t, ProjectStatusDraft, p.Status)
	assert.False(t, p.HasGeneratedCode())
	assert.False(t, p.CreatedAt.IsZero())
}

func TestApplyGeneration(t *testing.T) {
	p := NewProject(1, "site")
	before := p.UpdatedAt

	p.ApplyGeneration("<html></html>")

	require.NotNil(t, p.GeneratedCode)
	assert.Equal(t, "<html></html>", *p.GeneratedCode)
	assert.Equal(t, ProjectStatusGenerated, p.Status)
	assert.True(t, p.HasGeneratedCode())
	assert.False(t, p.UpdatedAt.Before(before))
}

func TestApplyRegeneration(t *testing.T) {
	p := NewProject(1, "site")
	p.ApplyGeneration("<html>v1</html>")

	p.ApplyRegeneration("<html>v2</html>")

	require.NotNil(t, p.GeneratedCode)
	assert.Equal(t, "<html>v2</html>", *p.GeneratedCode)
	assert.Equal(t, ProjectStatusRegenerated, p.Status)
}

func TestHasGeneratedCodeEmptyString(t *testing.T) {
	p := NewProject(1, "site")
	empty := ""
	p.GeneratedCode = &empty
	assert.False(t, p.HasGeneratedCode())
}
