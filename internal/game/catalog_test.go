package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/vida-loka-geracoes/internal/types"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()

	// Test case 1: Every section is populated
	assert.NotEmpty(t, catalog.Focuses)
	assert.NotEmpty(t, catalog.Challenges)
	assert.NotEmpty(t, catalog.Shop)
	assert.NotEmpty(t, catalog.Names["male"])
	assert.NotEmpty(t, catalog.Names["female"])
	assert.Len(t, catalog.Backgrounds, 3)

	// Test case 2: Lookups
	focus, ok := catalog.Focus("saude")
	require.True(t, ok)
	assert.Equal(t, 5.0, focus.StatChanges[types.StatHealth])
	_, ok = catalog.Focus("nada")
	assert.False(t, ok)

	item, ok := catalog.ShopItem("segredo")
	require.True(t, ok)
	assert.NotEmpty(t, item.Bonus.InheritedSecret)
	assert.Equal(t, 1, item.MaxTier())

	wealthy := catalog.Backgrounds[types.BackgroundWealthy]
	assert.Equal(t, int64(50000), wealthy.Wealth)
	assert.Equal(t, []string{"Casa da família"}, wealthy.Assets)
}

func TestLoadCatalog(t *testing.T) {
	// Test case 1: No directory or no file falls back to the embedded catalog
	catalog, err := NewDataLoader("").LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog().Focuses, catalog.Focuses)

	catalog, err = NewDataLoader(t.TempDir()).LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog().Focuses, catalog.Focuses)

	// Test case 2: A custom catalog replaces the default
	dir := t.TempDir()
	custom := `
focuses:
  - id: ocio
    name: Ócio
    stat_changes: {stress: -20}
shop:
  - id: sorte
    name: Sorte
    stackable: true
    costs: [10, 20]
    bonus:
      stat_changes: {luck: 10}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, CatalogFile), []byte(custom), 0644))
	catalog, err = NewDataLoader(dir).LoadCatalog()
	require.NoError(t, err)
	require.Len(t, catalog.Focuses, 1)
	assert.Equal(t, "ocio", catalog.Focuses[0].ID)
	assert.Equal(t, 10.0, catalog.Shop[0].Bonus.StatChanges[types.StatLuck])

	// Test case 3: Broken files are reported
	require.NoError(t, os.WriteFile(filepath.Join(dir, CatalogFile), []byte("focuses: [{"), 0644))
	_, err = NewDataLoader(dir).LoadCatalog()
	assert.Error(t, err)
}

func TestCatalogValidate(t *testing.T) {
	_, err := ParseCatalog([]byte("focuses: []"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("focuses: [{id: a}, {id: a}]"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("focuses: [{id: a}]\nshop: [{id: x, costs: [5, 1], stackable: true}]"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("focuses: [{id: a}]\nchallenges: [{id: c}, {id: c}]"))
	assert.Error(t, err)
}
