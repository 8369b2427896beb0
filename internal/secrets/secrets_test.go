// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		SessionKeyName:   "  3f9a0c  \n",
		"naep-api-token": "tok_xyz789",
		"empty-key":      "",
		"blank-key":      "   \n\t  ",
		".hidden-key":    "secret",
	} {
		writeFile(t, dir, name, content)
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))
	writeFile(t, filepath.Join(dir, "archive"), "old-key", "stale")

	got, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		SessionKeyName:   "3f9a0c",
		"naep-api-token": "tok_xyz789",
	}, got, "only non-blank top-level files are loaded")
}

func TestLoad_NoSecrets(t *testing.T) {
	for name, dir := range map[string]string{
		"missing directory": filepath.Join(t.TempDir(), ".secrets"),
		"empty directory":   t.TempDir(),
	} {
		t.Run(name, func(t *testing.T) {
			got, err := Load(dir, nil)
			require.NoError(t, err)
			assert.Empty(t, got)
			assert.NotNil(t, got)
		})
	}
}

func TestLoad_UnreadableFileWarns(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read mode 0000 files")
	}
	dir := t.TempDir()
	writeFile(t, dir, SessionKeyName, "k_123")
	locked := filepath.Join(dir, "naep-api-token")
	require.NoError(t, os.WriteFile(locked, []byte("tok"), 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o644) })

	core, logs := observer.New(zap.WarnLevel)
	got, err := Load(dir, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{SessionKeyName: "k_123"}, got)

	warned := logs.FilterMessage("could not read secret").All()
	require.Len(t, warned, 1)
	assert.Equal(t, "naep-api-token", warned[0].ContextMap()["name"])
}

func TestSessionKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".secrets")

	key, err := SessionKey(dir, nil)
	require.NoError(t, err)
	assert.Len(t, key, 64)

	info, err := os.Stat(filepath.Join(dir, SessionKeyName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := SessionKey(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, key, again, "stored key is reused")
}

func TestSessionKey_Existing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, SessionKeyName, "fixed-key\n")

	key, err := SessionKey(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("fixed-key"), key)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
