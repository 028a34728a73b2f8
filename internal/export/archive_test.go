package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/models"
)

func TestSanitizeEntryName(t *testing.T) {
	tests := map[string]string{
		"/src/index.ts":    "src/index.ts",
		"./README.md":      "README.md",
		"plain.txt":        "plain.txt",
		"//double.txt":     "/double.txt",
		"././twice.txt":    "./twice.txt",
		"../escape.txt":    "../escape.txt",
		"a/../b.txt":       "a/../b.txt",
		".hidden/config":   ".hidden/config",
		"C:/windows/drive": "C:/windows/drive",
	}

	for in, want := range tests {
		assert.Equal(t, want, SanitizeEntryName(in), in)
	}
}

func TestArchiveName(t *testing.T) {
	assert.Equal(t, "user_authentication_service.zip", ArchiveName("User Authentication Service"))
	assert.Equal(t, "ci/cd_pipeline_configuration.zip", ArchiveName("CI/CD Pipeline Configuration"))
	assert.Equal(t, "a_b.zip", ArchiveName("A \t\n B"))
	assert.Equal(t, DefaultArchiveName, ArchiveName(""))
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := make(map[string]string, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = string(body)
	}
	return out
}

func TestBuild(t *testing.T) {
	t.Run("entries are sanitized and byte exact", func(t *testing.T) {
		data, err := Build([]models.GeneratedFile{
			{Name: "/src/index.ts", Content: "export {};\n"},
			{Name: "./README.md", Content: "# Demo  \n\tindented"},
		})
		require.NoError(t, err)

		entries := readZip(t, data)
		assert.Equal(t, map[string]string{
			"src/index.ts": "export {};\n",
			"README.md":    "# Demo  \n\tindented",
		}, entries)
	})

	t.Run("trailing slash is stored as a file", func(t *testing.T) {
		data, err := Build([]models.GeneratedFile{
			{Name: "src/", Content: "body"},
			{Name: "./docs//", Content: "more"},
		})
		require.NoError(t, err)

		assert.Equal(t, map[string]string{
			"src":  "body",
			"docs": "more",
		}, readZip(t, data))
	})

	t.Run("no files", func(t *testing.T) {
		data, err := Build(nil)
		assert.ErrorIs(t, err, ErrNoFiles)
		assert.Nil(t, data)
	})

	t.Run("empty entry name aborts without output", func(t *testing.T) {
		data, err := Build([]models.GeneratedFile{
			{Name: "ok.txt", Content: "ok"},
			{Name: "/", Content: "nameless"},
		})
		assert.Error(t, err)
		assert.Nil(t, data)
	})
}

type failingArchiver struct {
	failOn string
	added  []string
}

func (f *failingArchiver) Create() error {
	if f.failOn == "create" {
		return errors.New("boom")
	}
	return nil
}

func (f *failingArchiver) AddEntry(path string, _ []byte) error {
	if f.failOn == "add" {
		return errors.New("boom")
	}
	f.added = append(f.added, path)
	return nil
}

func (f *failingArchiver) Bytes() ([]byte, error) {
	if f.failOn == "bytes" {
		return nil, errors.New("boom")
	}
	return []byte("ok"), nil
}

func TestBuildWith_Failures(t *testing.T) {
	files := []models.GeneratedFile{{Name: "/a.txt", Content: "a"}}

	for _, stage := range []string{"create", "add", "bytes"} {
		t.Run(stage, func(t *testing.T) {
			data, err := BuildWith(&failingArchiver{failOn: stage}, files)
			assert.ErrorContains(t, err, "boom")
			assert.Nil(t, data)
		})
	}

	t.Run("success passes sanitized paths", func(t *testing.T) {
		a := &failingArchiver{}
		data, err := BuildWith(a, files)
		require.NoError(t, err)
		assert.Equal(t, []byte("ok"), data)
		assert.Equal(t, []string{"a.txt"}, a.added)
	})
}

func TestZipArchiver_Reuse(t *testing.T) {
	z := NewZipArchiver()
	assert.Error(t, z.AddEntry("a.txt", nil))

	require.NoError(t, z.Create())
	require.NoError(t, z.AddEntry("a.txt", []byte("1")))
	first, err := z.Bytes()
	require.NoError(t, err)

	_, err = z.Bytes()
	assert.Error(t, err)

	require.NoError(t, z.Create())
	require.NoError(t, z.AddEntry("b.txt", []byte("2")))
	second, err := z.Bytes()
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"a.txt": "1"}, readZip(t, first))
	assert.Equal(t, map[string]string{"b.txt": "2"}, readZip(t, second))
}
