package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/mydata-gateway/internal/validation"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	check := checkAs(validation.ValidateSendClient)

	valid := validateFile(writeFile(t, dir, "ok.json", `{"branch":1,"rental":{"vehicleMovementPurpose":1}}`), check)
	assert.True(t, valid.Valid)
	assert.Empty(t, valid.Errors)

	invalid := validateFile(writeFile(t, dir, "bad.json", `{"rental":{}}`), check)
	assert.False(t, invalid.Valid)
	assert.Contains(t, invalid.Errors, "branch is required")

	broken := validateFile(writeFile(t, dir, "broken.json", `{`), check)
	assert.False(t, broken.Valid)
	require.Len(t, broken.Errors, 1)
	assert.Contains(t, broken.Errors[0], "invalid JSON")

	missing := validateFile(filepath.Join(dir, "missing.json"), check)
	assert.False(t, missing.Valid)
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", "{}")
	writeFile(t, dir, "b.JSON", "{}")
	writeFile(t, dir, "notes.txt", "")

	files, err := collectFiles([]string{dir})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = collectFiles([]string{filepath.Join(dir, "*.txt")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "notes.txt")}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "nope.json")})
	assert.Error(t, err)
}
