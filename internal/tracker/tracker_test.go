// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/datapacket/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.TrackerConfig{DBPath: filepath.Join(t.TempDir(), "db", "sources.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func intPtr(n int) *int { return &n }

func source(name string, pulled time.Time) types.DataSource {
	return types.DataSource{
		Name:       name,
		DatePulled: pulled,
		SourceType: types.SourcePDF,
	}
}

func TestAddAndGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	pulled := time.Date(2024, 11, 3, 9, 30, 0, 0, time.UTC)

	src := source("act_2024", pulled)
	src.FilePath = "data/act.pdf"
	src.RecordCount = intPtr(51)
	src.Notes = "  two pages  "
	src.Metadata = map[string]string{"contact_person": "R. Ortiz", "file_size": "2.1 MB"}

	added, err := store.Add(ctx, src)
	require.NoError(t, err)
	assert.NotZero(t, added.ID)
	assert.Equal(t, types.StatusSuccess, added.Status, "status defaults to success")

	got, err := store.Get(ctx, "act_2024")
	require.NoError(t, err)
	assert.Equal(t, added.ID, got.ID)
	assert.True(t, pulled.Equal(got.DatePulled))
	assert.Equal(t, types.SourcePDF, got.SourceType)
	assert.Equal(t, "data/act.pdf", got.FilePath)
	require.NotNil(t, got.RecordCount)
	assert.Equal(t, 51, *got.RecordCount)
	assert.Equal(t, "two pages", got.Notes)
	assert.Equal(t, src.Metadata, got.Metadata)
}

func TestAdd_ReplacesByName(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	first := source("naep_2024", time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC))
	first.RecordCount = intPtr(10)
	_, err := store.Add(ctx, first)
	require.NoError(t, err)

	second := source("naep_2024", time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC))
	second.SourceType = types.SourceExcel
	second.Status = types.StatusPartial
	_, err = store.Add(ctx, second)
	require.NoError(t, err)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := store.Get(ctx, "naep_2024")
	require.NoError(t, err)
	assert.Equal(t, types.SourceExcel, got.SourceType)
	assert.Equal(t, types.StatusPartial, got.Status)
	assert.Nil(t, got.RecordCount, "replacement drops the old record count")
	assert.Nil(t, got.Metadata)
}

func TestAdd_Invalid(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		name string
		src  types.DataSource
	}{
		{"blank name", source("   ", now)},
		{"unknown type", types.DataSource{Name: "x", DatePulled: now, SourceType: "fax"}},
		{"unknown status", types.DataSource{Name: "x", DatePulled: now, SourceType: types.SourceCSV, Status: "done"}},
		{"negative count", types.DataSource{Name: "x", DatePulled: now, SourceType: types.SourceCSV, RecordCount: intPtr(-1)}},
		{"no date", types.DataSource{Name: "x", SourceType: types.SourceCSV}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Add(ctx, tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSource))
		})
	}

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestList_NewestFirst(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	base := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

	for i, name := range []string{"b", "c", "a"} {
		_, err := store.Add(ctx, source(name, base.Add(time.Duration(i)*time.Hour+time.Duration(i)*500*time.Millisecond)))
		require.NoError(t, err)
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "c", list[1].Name)
	assert.Equal(t, "b", list[2].Name)
}

func TestGet_NotFound(t *testing.T) {
	store := testStore(t)
	_, err := store.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.db")
	ctx := context.Background()

	store, err := NewStore(types.TrackerConfig{DBPath: path})
	require.NoError(t, err)
	_, err = store.Add(ctx, source("act_2024", time.Now()))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewStore(types.TrackerConfig{DBPath: path})
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, path, store.Path())

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestExport(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	src := source("act_2024", time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC))
	src.Metadata = map[string]string{"data_owner": "ACT"}
	_, err := store.Add(ctx, src)
	require.NoError(t, err)
	_, err = store.Add(ctx, source("naep_2024", time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")

	yamlPath := filepath.Join(dir, "sources.yaml")
	require.NoError(t, store.ExportYAML(ctx, yamlPath))
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []types.DataSource
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 2)
	assert.Equal(t, "naep_2024", fromYAML[0].Name)
	assert.Equal(t, "ACT", fromYAML[1].Metadata["data_owner"])

	jsonPath := filepath.Join(dir, "sources.json")
	require.NoError(t, store.ExportJSON(ctx, jsonPath))
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []types.DataSource
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Len(t, fromJSON, 2)
	assert.Equal(t, types.SourcePDF, fromJSON[1].SourceType)
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{
		"2024-11-03T09:30:00.000000000Z",
		"2024-11-03T09:30:00Z",
		"2024-11-03 09:30:00",
		"2024-11-03 09:30:00.123456",
	} {
		got, err := parseTime(s)
		require.NoError(t, err, s)
		assert.Equal(t, 2024, got.Year())
	}
	_, err := parseTime("yesterday")
	assert.Error(t, err)
}
