// Package ingest turns raw knowledge-base documents into index chunks.
// It runs as a batch step (cmd/ingest) before the service starts; the
// serving process only ever reads the finished artifact.
package ingest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"

	"github.com/volleykb/assistant/backend/internal/log"
	"github.com/volleykb/assistant/backend/internal/model/kb"
)

// Document is one source file's extracted text.
type Document struct {
	Name    string
	Content string
}

// LoadDir reads every supported document (.pdf, .docx, .txt, .md) from dir
// in a stable order. Unsupported files are skipped with a warning; a file
// that fails extraction is logged and skipped so one corrupt document does
// not abort the whole ingestion run. Empty documents are dropped.
func LoadDir(dir string, logger log.Logger) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir %s: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		content, err := extractText(filepath.Join(dir, name), logger)
		if err != nil {
			logger.Error("failed to load document", "file", name, "error", err)
			continue
		}
		content = strings.TrimSpace(content)
		if content == "" {
			logger.Warn("no text extracted", "file", name)
			continue
		}
		docs = append(docs, Document{Name: name, Content: content})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// extractText dispatches on the file extension. Unsupported extensions are
// skipped with a warning, not treated as errors.
func extractText(path string, logger log.Logger) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	default:
		logger.Warn("skipping unsupported file", "file", filepath.Base(path))
		return "", nil
	}
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

func extractDOCX(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch item.(type) {
		case *docx.Paragraph, *docx.Table:
			text := strings.TrimSpace(fmt.Sprint(item))
			if text != "" {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
		}
	}
	return sb.String(), nil
}

// ChunkAll splits every document and tags each chunk with its source file
// and position so answers can cite where an excerpt came from.
func ChunkAll(docs []Document, chunker *Chunker) []kb.Chunk {
	var chunks []kb.Chunk
	for _, doc := range docs {
		for i, text := range chunker.Chunk(doc.Content) {
			chunks = append(chunks, kb.Chunk{
				Text: text,
				Metadata: map[string]string{
					"source": doc.Name,
					"chunk":  strconv.Itoa(i),
				},
			})
		}
	}
	return chunks
}
