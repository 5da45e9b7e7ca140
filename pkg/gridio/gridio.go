// Package gridio reads and writes the project's file formats: the
// versioned document JSON, the grid summary JSON, and the plain text
// parameter sheet.
package gridio

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/longplay45/swissgrid/pkg/document"
	"github.com/longplay45/swissgrid/pkg/errors"
)

// DocumentVersion is the current document file version. Readers reject
// files written with any other version.
const DocumentVersion = 1

// DocumentFile is the on-disk envelope around a document.
type DocumentFile struct {
	Version  int                `json:"version" bson:"version"`
	SavedAt  time.Time          `json:"saved_at" bson:"saved_at"`
	Document *document.Document `json:"document" bson:"document"`
}

// WriteDocument writes the versioned envelope as indented JSON.
func WriteDocument(w io.Writer, doc *document.Document) error {
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidInput, "document is nil")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	file := DocumentFile{
		Version:  DocumentVersion,
		SavedAt:  time.Now().UTC(),
		Document: doc,
	}
	if err := enc.Encode(file); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return nil
}

// ReadDocument parses a versioned envelope.
func ReadDocument(r io.Reader) (*document.Document, error) {
	var file DocumentFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse document file")
	}
	if file.Version != DocumentVersion {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"unsupported document version %d (this build reads version %d)",
			file.Version, DocumentVersion)
	}
	if file.Document == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document file carries no document")
	}
	return file.Document, nil
}

// SaveDocument writes a document to path.
func SaveDocument(path string, doc *document.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := WriteDocument(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadDocument reads a document from path.
func LoadDocument(path string) (*document.Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "no document at %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	return ReadDocument(f)
}
