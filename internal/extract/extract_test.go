package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalassist/internal/model"
)

func TestExtract_TXT(t *testing.T) {
	e := New()

	text, err := e.Extract([]byte("plain text\nwith lines"), model.FileTypeTXT)

	require.NoError(t, err)
	assert.Equal(t, "plain text\nwith lines", text)
}

func TestExtract_TXT_InvalidUTF8(t *testing.T) {
	e := New()

	text, err := e.Extract([]byte{'o', 'k', 0xff, 0xfe, '!'}, model.FileTypeTXT)

	require.NoError(t, err)
	assert.Contains(t, text, "ok")
	assert.Contains(t, text, "�")
	assert.Contains(t, text, "!")
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	e := New()

	_, err := e.Extract([]byte("anything"), model.FileType("exe"))

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtract_DOCX(t *testing.T) {
	e := New()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t> </w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := e.Extract(buildDOCX(t, docXML), model.FileTypeDOCX)

	require.NoError(t, err)
	// Whitespace-only paragraphs are skipped; runs of one paragraph are joined.
	assert.Equal(t, "First paragraph\nSecond paragraph", text)
}

func TestExtract_DOCX_NotAnArchive(t *testing.T) {
	e := New()

	_, err := e.Extract([]byte("not a zip file"), model.FileTypeDOCX)

	assert.ErrorIs(t, err, ErrExtraction)
}

func TestExtract_DOCX_MissingDocumentXML(t *testing.T) {
	e := New()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = e.Extract(buf.Bytes(), model.FileTypeDOCX)

	assert.ErrorIs(t, err, ErrExtraction)
}

func TestExtract_DOCX_MalformedXML(t *testing.T) {
	e := New()

	_, err := e.Extract(buildDOCX(t, "<w:document><unclosed"), model.FileTypeDOCX)

	assert.ErrorIs(t, err, ErrExtraction)
}

func TestExtract_PDF_Malformed(t *testing.T) {
	e := New()

	_, err := e.Extract([]byte("%PDF-1.7 definitely not a real pdf body"), model.FileTypePDF)

	assert.ErrorIs(t, err, ErrExtraction)
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
