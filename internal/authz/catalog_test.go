package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown(PermCreateClub))
	assert.True(t, IsKnown(PermUploadFile))
	assert.False(t, IsKnown("BAD_NAME"))
	assert.False(t, IsKnown(""))
	assert.False(t, IsKnown("create_club"), "catalog names are case sensitive")
}

func TestCatalogEntriesAreUniqueAndCategorised(t *testing.T) {
	entries := Catalog()
	require.NotEmpty(t, entries)

	known := map[Category]bool{}
	for _, c := range Categories() {
		known[c] = true
	}
	seen := map[string]bool{}
	for _, e := range entries {
		assert.False(t, seen[e.Name], "duplicate catalog entry %s", e.Name)
		seen[e.Name] = true
		assert.NotEmpty(t, e.Description, e.Name)
		assert.True(t, known[e.Category], "entry %s has unlisted category %s", e.Name, e.Category)
	}
}

func TestListByCategoryPreservesDeclarationOrder(t *testing.T) {
	grouped := ListByCategory()

	require.Contains(t, grouped, CategoryClubManagement)
	names := make([]string, 0, len(grouped[CategoryClubManagement]))
	for _, e := range grouped[CategoryClubManagement] {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{PermCreateClub, PermEditClub, PermDeleteClub, PermManageMembers, PermScheduleMeeting}, names)

	total := 0
	for _, c := range Categories() {
		total += len(grouped[c])
	}
	assert.Equal(t, len(Catalog()), total, "every entry belongs to a listed category")
}
