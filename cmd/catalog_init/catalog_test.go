package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDuplicate(t *testing.T) {
	assert.True(t, isDuplicate(errors.New("Duplicate entry 'projects'")))
	assert.True(t, isDuplicate(errors.New("table already exists")))
	assert.True(t, isDuplicate(errors.New("409 Conflict")))
	assert.False(t, isDuplicate(errors.New("permission denied")))
}

// The mirror writes CSV rows positionally, so these orders are part of the contract.
func TestCatalogColumnOrder(t *testing.T) {
	want := map[string][]string{
		"projects": {"id", "name", "description", "owner_id", "created_at"},
		"daily_updates": {"id", "project_id", "user_id", "user_name", "daily_date",
			"what_did_yesterday", "what_will_do_today", "blockers", "created_at"},
	}
	require.Len(t, catalogTables, len(want))
	for _, tbl := range catalogTables {
		var got []string
		for _, c := range tbl.columns {
			got = append(got, c.Name)
		}
		assert.Equal(t, want[tbl.name], got, tbl.name)
		assert.True(t, tbl.columns[0].IsPk, tbl.name)
	}
}
