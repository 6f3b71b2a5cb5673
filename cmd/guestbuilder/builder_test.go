package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTemplate(t *testing.T) {
	b := &Builder{WorkDir: t.TempDir(), Package: "example.com/vendor/uwbcore"}
	dst := filepath.Join(b.WorkDir, "main.go")

	err := b.writeTemplate(dst, coreTemplate, b.templateData())
	require.NoError(t, err)

	src, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(src), `core "example.com/vendor/uwbcore"`)
	assert.Contains(t, string(src), "plugin.Set(core.New())")
	assert.Contains(t, string(src), "func main() {}")
}

func TestWriteTemplateConstructor(t *testing.T) {
	b := &Builder{
		WorkDir:     t.TempDir(),
		Package:     "github.com/uwbwasm/uwbwasm/guest/fakecore",
		Constructor: "NewFromHost",
	}
	dst := filepath.Join(b.WorkDir, "main.go")
	require.NoError(t, b.writeTemplate(dst, coreTemplate, b.templateData()))

	src, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(src), "plugin.Set(core.NewFromHost())")
}

func TestWriteTemplateUnknown(t *testing.T) {
	b := &Builder{WorkDir: t.TempDir()}
	assert.Error(t, b.writeTemplate(filepath.Join(b.WorkDir, "main.go"), "missing.gotmpl", nil))
}

func TestNewBuilderDefaults(t *testing.T) {
	b := newBuilder("example.com/vendor/uwbcore")
	assert.Equal(t, "uwbcore", b.PackageName)
	assert.Equal(t, "uwbcore.wasm", b.Output)
	assert.Equal(t, "uwbcore", b.WorkDir)
	assert.Equal(t, defaultConstructor, b.Constructor)
}

func TestClean(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "work")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	b := &Builder{WorkDir: dir}
	require.NoError(t, b.Clean())
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
