package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/atelier/internal/auth"
)

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHashPasswordArgument(t *testing.T) {
	out, err := runCmd(t, "", "hash-password", "sesame")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	m := auth.NewManager(hash, "secret", time.Minute)
	_, err = m.Login("sesame")
	assert.NoError(t, err)
}

func TestHashPasswordStdin(t *testing.T) {
	out, err := runCmd(t, "open sesame\n", "hash-password")
	require.NoError(t, err)

	m := auth.NewManager(strings.TrimSpace(out), "secret", time.Minute)
	_, err = m.Login("open sesame")
	assert.NoError(t, err)
}

func TestHashPasswordEmpty(t *testing.T) {
	_, err := runCmd(t, "\n", "hash-password")
	assert.Error(t, err)
}

func setDatabaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "atelier.db"))
	t.Setenv("BLOB_BACKEND", "local")
	t.Setenv("ALT_TEXT_BACKEND", "none")
	t.Setenv("ATELIER_CONFIG", "")
}

func TestMigrateVersionDoesNotMigrate(t *testing.T) {
	setDatabaseEnv(t)

	out, err := runCmd(t, "", "migrate", "version")
	require.NoError(t, err)
	assert.Equal(t, "0", strings.TrimSpace(out))

	out, err = runCmd(t, "", "migrate", "version")
	require.NoError(t, err)
	assert.Equal(t, "0", strings.TrimSpace(out))
}

func TestMigrateUpAndVersion(t *testing.T) {
	setDatabaseEnv(t)

	out, err := runCmd(t, "", "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "schema at version 2")

	out, err = runCmd(t, "", "migrate", "version")
	require.NoError(t, err)
	assert.Equal(t, "2", strings.TrimSpace(out))
}
