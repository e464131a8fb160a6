package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driving"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestIngestCmd_RequiresFiles(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("ingest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestIngestCmd_IngestsFiles(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeTempFile(t, "a.txt", "Some document text.")
	out, err := execute("ingest", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 chunk(s)")
	assert.Contains(t, out, "Indexed 1 chunk(s) from 1 document(s)")
}

func TestIngestCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("ingest", filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}

func TestIngestCmd_ReportsPerDocumentFailures(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeTempFile(t, "a.txt", "text")
	ingestService.(*mockIngestService).result = &driving.IngestResult{
		Documents: []driving.DocumentResult{
			{SourcePath: path, Err: errBoom},
		},
	}

	out, err := execute("ingest", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 document(s) failed")
	assert.Contains(t, out, "boom")
}

func TestSplitPages(t *testing.T) {
	content, offsets := splitPages("page one\fpage two\fpage three")
	assert.Equal(t, "page one\npage two\npage three", content)
	require.Len(t, offsets, 3)
	assert.Equal(t, domain.PageOffset{Offset: 0, Page: 1}, offsets[0])
	assert.Equal(t, domain.PageOffset{Offset: 9, Page: 2}, offsets[1])
	assert.Equal(t, domain.PageOffset{Offset: 18, Page: 3}, offsets[2])

	// Input without form feeds has no page structure.
	content, offsets = splitPages("plain text")
	assert.Equal(t, "plain text", content)
	assert.Nil(t, offsets)
}
