package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/models"
)

// DefaultArchiveName is used when no service is selected.
const DefaultArchiveName = "project.zip"

// ErrNoFiles is returned when there is nothing to archive.
var ErrNoFiles = errors.New("no generated files to archive")

var whitespaceRun = regexp.MustCompile(`\s+`)

// Archiver builds one archive: create it, add entries, then serialize.
type Archiver interface {
	Create() error
	AddEntry(path string, content []byte) error
	Bytes() ([]byte, error)
}

// SanitizeEntryName strips one leading "./" or "/" from a file name.
// Embedded ".." segments are left untouched.
func SanitizeEntryName(name string) string {
	if strings.HasPrefix(name, "./") {
		return name[2:]
	}
	return strings.TrimPrefix(name, "/")
}

// ArchiveName derives the download name from a service name: lowercased,
// whitespace runs collapsed to underscores, with a .zip suffix.
func ArchiveName(serviceName string) string {
	if serviceName == "" {
		return DefaultArchiveName
	}
	return strings.ToLower(whitespaceRun.ReplaceAllString(serviceName, "_")) + ".zip"
}

// Build writes files into a new zip archive. It returns either the complete
// archive or an error, never partial output.
func Build(files []models.GeneratedFile) ([]byte, error) {
	return BuildWith(NewZipArchiver(), files)
}

// BuildWith writes files through the given Archiver.
func BuildWith(a Archiver, files []models.GeneratedFile) ([]byte, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if err := a.Create(); err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}
	for _, f := range files {
		// A trailing slash would make a directory entry that cannot hold content.
		name := strings.TrimRight(SanitizeEntryName(f.Name), "/")
		if err := a.AddEntry(name, []byte(f.Content)); err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", f.Name, err)
		}
	}
	out, err := a.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize archive: %w", err)
	}
	return out, nil
}

// ZipArchiver is an in-memory zip Archiver.
type ZipArchiver struct {
	buf      *bytes.Buffer
	w        *zip.Writer
	modified time.Time
}

// NewZipArchiver returns an Archiver producing zip archives.
func NewZipArchiver() *ZipArchiver {
	return &ZipArchiver{}
}

// Create starts a new archive, discarding any previous one.
func (z *ZipArchiver) Create() error {
	z.buf = new(bytes.Buffer)
	z.w = zip.NewWriter(z.buf)
	z.modified = time.Now()
	return nil
}

// AddEntry stores content under path.
func (z *ZipArchiver) AddEntry(path string, content []byte) error {
	if z.w == nil {
		return errors.New("archive not created")
	}
	if path == "" {
		return errors.New("empty entry path")
	}
	w, err := z.w.CreateHeader(&zip.FileHeader{
		Name:     path,
		Method:   zip.Deflate,
		Modified: z.modified,
	})
	if err != nil {
		return err
	}
	_, err = w.Write(content)
	return err
}

// Bytes finalizes the archive and returns its encoding.
func (z *ZipArchiver) Bytes() ([]byte, error) {
	if z.w == nil {
		return nil, errors.New("archive not created")
	}
	if err := z.w.Close(); err != nil {
		return nil, err
	}
	out := z.buf.Bytes()
	z.w, z.buf = nil, nil
	return out, nil
}
