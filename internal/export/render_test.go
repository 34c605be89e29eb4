package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/chromexport/internal/history"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"text", "csv", "html", "all", "ALL"} {
		_, err := ParseMode(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseMode("pdf")
	assert.Error(t, err)
}

func TestModeFormats(t *testing.T) {
	assert.Equal(t, []Format{FormatText}, ModeText.Formats())
	assert.Equal(t, []Format{FormatHTML, FormatCSV, FormatText}, ModeAll.Formats())
	assert.Nil(t, Mode("bogus").Formats())
}

func TestFormatExtension(t *testing.T) {
	assert.Equal(t, "txt", FormatText.Extension())
	assert.Equal(t, "csv", FormatCSV.Extension())
	assert.Equal(t, "html", FormatHTML.Extension())
}

func TestRenderText_Grid(t *testing.T) {
	table, err := defaultConverter().Convert(exampleEntries(), FormatText)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, table))
	out := buf.String()

	assert.Contains(t, out, "Row #")
	assert.Contains(t, out, "Last visit time")
	assert.Contains(t, out, "http://test.com")
	assert.Contains(t, out, "1601-01-01 00:00:01.000000")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	width := len(lines[0])
	for _, l := range lines {
		assert.Equal(t, width, len(l), "grid lines must share one width: %q", l)
	}
}

func TestRenderText_HeaderOnlyWhenEmpty(t *testing.T) {
	table, err := defaultConverter().Convert(nil, FormatText)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, table))
	assert.Contains(t, buf.String(), "Title")
	assert.Contains(t, buf.String(), "Visit count")
}

func TestRenderGrid_Wraps(t *testing.T) {
	long := strings.Repeat("word ", 40)
	var buf bytes.Buffer
	require.NoError(t, RenderGrid(&buf, []string{"sql"}, [][]string{{long}}, 30))

	for _, l := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.Less(t, len(l), 60)
	}
}

func TestRenderCSV_HeaderOnlyWhenEmpty(t *testing.T) {
	table, err := defaultConverter().Convert(nil, FormatCSV)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, table))
	assert.Equal(t, "Row #,Title,URL,Last visit time,Visit count\n", buf.String())
}

func TestRenderCSV_QuotesSpecialCharacters(t *testing.T) {
	entries := []history.Entry{{Title: `Hello, "world"`, URL: "http://x"}}
	table, err := defaultConverter().Convert(entries, FormatCSV)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, table))
	assert.Contains(t, buf.String(), `"Hello, ""world"""`)
}

func TestRenderHTML_LiveLinksAndEscapedText(t *testing.T) {
	entries := []history.Entry{{Title: "<script>alert(1)</script>", URL: "http://test.com/?a=1&b=2"}}
	table, err := defaultConverter().Convert(entries, FormatHTML)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, table, "default"))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>default</title>")
	assert.Contains(t, out, `<td><a href="http://test.com/?a=1&amp;b=2">http://test.com/?a=1&amp;b=2</a></td>`)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "&lt;a href")
}

func TestRenderHTML_HeaderOnlyWhenEmpty(t *testing.T) {
	table, err := defaultConverter().Convert(nil, FormatHTML)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, table, ""))
	out := buf.String()
	assert.Contains(t, out, "<th>Row #</th>")
	assert.NotContains(t, out, "<td>")
	assert.Contains(t, out, "<title>Chrome history</title>")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRender_PropagatesWriteErrors(t *testing.T) {
	table, err := defaultConverter().Convert(exampleEntries(), FormatText)
	require.NoError(t, err)

	for _, f := range []Format{FormatText, FormatCSV, FormatHTML} {
		err := Render(failingWriter{}, table, f)
		assert.Error(t, err, string(f))
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	assert.Error(t, Render(&bytes.Buffer{}, &Table{}, Format("pdf")))
}
