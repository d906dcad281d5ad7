package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatedName = regexp.MustCompile(`^enrollment_\d{13}\.edi$`)

func TestResolveOutputPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("empty uses default dir", func(t *testing.T) {
		got := ResolveOutputPath("", dir, "", nil)
		assert.Equal(t, dir, filepath.Dir(got))
		assert.Regexp(t, generatedName, filepath.Base(got))
	})

	t.Run("existing directory", func(t *testing.T) {
		got := ResolveOutputPath(dir, "unused", "", nil)
		assert.Equal(t, dir, filepath.Dir(got))
		assert.Regexp(t, generatedName, filepath.Base(got))
	})

	t.Run("trailing separator", func(t *testing.T) {
		got := ResolveOutputPath("out/", "unused", "", nil)
		assert.Equal(t, "out", filepath.Dir(got))
		assert.Regexp(t, generatedName, filepath.Base(got))
	})

	t.Run("no extension", func(t *testing.T) {
		assert.Equal(t, filepath.Join(dir, "jan"+DefaultExtension),
			ResolveOutputPath(filepath.Join(dir, "jan"), "unused", "", nil))
	})

	t.Run("explicit file", func(t *testing.T) {
		assert.Equal(t, "out/jan.x12", ResolveOutputPath("out/jan.x12", "unused", "", nil))
	})
}

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("enrollment_{control}_{uuid}", map[string]string{"control": "123456"})
	assert.True(t, strings.HasPrefix(name, "enrollment_123456_"))
	assert.True(t, strings.HasSuffix(name, DefaultExtension))
	assert.NotContains(t, name, "{")

	assert.Regexp(t, generatedName, GenerateOutputFileName("", nil))
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "doc.edi")
	require.NoError(t, WriteFileAtomic(path, []byte("ISA~\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ISA~\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not remain")

	require.NoError(t, WriteFileAtomic(path, []byte("GS~\n")))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "GS~\n", string(data))
}

func TestDiscoverAndArchive(t *testing.T) {
	in := t.TempDir()
	archive := filepath.Join(t.TempDir(), "archive")
	for _, name := range []string{"b.csv", "a.XLSX", "notes.txt", "~$a.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(in, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(in, "sub.csv"), 0o755))

	fm := NewFileManager(in, t.TempDir(), archive)
	require.NoError(t, fm.EnsureDirectories())

	files, err := fm.DiscoverInputFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(in, "a.XLSX"), filepath.Join(in, "b.csv")}, files)

	archived, err := fm.ArchiveInputFile(files[1])
	require.NoError(t, err)
	assert.True(t, FileExists(archived))
	assert.False(t, FileExists(files[1]))
	assert.True(t, strings.HasSuffix(archived, "_b.csv"))

	fm.InputArchiveDir = ""
	archived, err = fm.ArchiveInputFile(files[0])
	require.NoError(t, err)
	assert.Empty(t, archived)
	assert.True(t, FileExists(files[0]))
}

func TestWriteSummaryLog(t *testing.T) {
	dir := t.TempDir()
	start := time.Now()
	path, err := WriteSummaryLog(ProcessingSummary{
		StartTime:       start,
		EndTime:         start.Add(time.Second),
		TotalFiles:      2,
		SuccessfulFiles: 1,
		FailedFiles:     1,
		TotalMembers:    3,
		ProcessedFiles:  []ProcessedFileInfo{{InputFile: "a.csv", OutputFile: "a.edi", ControlNumber: 123456, Members: 3}},
		FailedFilesList: []FailedFileInfo{{InputFile: "b.csv", ErrorMessage: "Row validation failed:\nRow 2: Member ID is required."}},
	}, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Total Members:  3")
	assert.Contains(t, content, "Control Number: 123456")
	assert.Contains(t, content, "Row 2: Member ID is required.")
}
