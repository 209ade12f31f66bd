package controllers

import (
	"net/http"
	"testing"

	"fusevip/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findTable(tables []TableInfo, name string) (TableInfo, bool) {
	for _, tb := range tables {
		if tb.Name == name {
			return tb, true
		}
	}
	return TableInfo{}, false
}

func TestExploreSchema_Sqlite(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Exec(`CREATE TABLE wallet_links (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		address TEXT DEFAULT 'none'
	)`).Error)

	tables, err := ExploreSchema(db)
	require.NoError(t, err)

	for _, name := range []string{"profiles", "businesses", "user_cards", "guest_purchases", "user_roles", "portal_roles"} {
		_, ok := findTable(tables, name)
		assert.True(t, ok, name)
	}

	links, ok := findTable(tables, "wallet_links")
	require.True(t, ok)
	require.Len(t, links.Columns, 3)
	assert.Equal(t, "profile_id", links.Columns[1].ColumnName)
	assert.Equal(t, "NO", links.Columns[1].IsNullable)
	assert.Equal(t, "YES", links.Columns[2].IsNullable)
	require.NotNil(t, links.Columns[2].ColumnDefault)
	assert.Equal(t, "'none'", *links.Columns[2].ColumnDefault)

	require.Len(t, links.ForeignKeys, 1)
	fk := links.ForeignKeys[0]
	assert.Equal(t, "profile_id", fk.ColumnName)
	assert.Equal(t, "profiles", fk.ForeignTable)
	assert.Equal(t, "id", fk.ForeignColumn)
	assert.Equal(t, "CASCADE", fk.DeleteRule)
}

func TestGetSchema(t *testing.T) {
	e := newTestEnv(t)
	e.r.GET("/api/schema-explorer", GetSchema)

	w := e.do(t, http.MethodGet, "/api/schema-explorer", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[struct {
		Tables []TableInfo `json:"tables"`
	}](t, w)
	profiles, ok := findTable(out.Tables, "profiles")
	require.True(t, ok)
	assert.NotEmpty(t, profiles.Columns)
	assert.NotNil(t, profiles.ForeignKeys)
}
