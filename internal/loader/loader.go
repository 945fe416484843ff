// Package loader reads HAR entries from a single capture, a ZIP archive
// holding a capture, or a directory of captures.
package loader

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/usestring/harcsv/internal/harerr"
	"github.com/usestring/harcsv/pkg/har"
)

// HarExt and ZipExt are the recognised source extensions.
const (
	HarExt = ".har"
	ZipExt = ".zip"
)

// Kind is the declared kind of a source.
type Kind int

const (
	KindUnsupported Kind = iota
	KindHAR
	KindZip
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindHAR:
		return "har"
	case KindZip:
		return "zip"
	case KindDirectory:
		return "directory"
	default:
		return "unsupported"
	}
}

// Tagged is an entry together with the base name of the file it came from.
type Tagged struct {
	Filename string
	Index    int
	Entry    har.Entry
}

// Archive is the result of loading a capture out of a ZIP file.
type Archive struct {
	Member  string
	Creator har.Creator
	Entries []har.Entry
}

// KindOf classifies path by its declared kind: an existing directory, or a
// file by extension (case-insensitive). File contents are never inspected.
func KindOf(path string) Kind {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return KindDirectory
	}
	return kindByExt(path)
}

func kindByExt(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case HarExt:
		return KindHAR
	case ZipExt:
		return KindZip
	default:
		return KindUnsupported
	}
}

// LoadFile decodes one HAR file and returns its entries in file order.
func LoadFile(path string) ([]har.Entry, error) {
	doc, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return doc.Entries, nil
}

func decodeFile(path string) (*har.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open HAR: %w", err)
	}
	defer f.Close()

	doc, err := har.Decode(f)
	if err != nil {
		if errors.Is(err, har.ErrMissingEntries) {
			return nil, harerr.MalformedInput(path, "required log.entries array is absent", nil)
		}
		return nil, harerr.MalformedInput(path, "could not parse HAR", err)
	}

	slog.Debug("decoded HAR",
		slog.String("path", path),
		slog.String("har_version", doc.Version),
		slog.String("creator", doc.Creator.Name),
		slog.String("creator_version", doc.Creator.Version),
		slog.Int("entries", len(doc.Entries)),
	)
	return doc, nil
}

// LoadArchive extracts the HAR member of a ZIP archive into a temporary file
// under tempDir (os.TempDir when empty) and decodes it. The temporary file is
// removed before returning, whether decoding succeeded or not.
//
// When the archive holds several .har members the first in sorted-name order
// is used.
func LoadArchive(path, tempDir string) (*Archive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer zr.Close()

	members := harMembers(zr.File)
	if len(members) == 0 {
		return nil, harerr.NoHarFound()
	}
	if len(members) > 1 {
		names := make([]string, len(members))
		for i, m := range members {
			names[i] = m.Name
		}
		slog.Warn("archive contains several HAR files, using the first",
			slog.String("archive", path),
			slog.String("using", names[0]),
			slog.Any("members", names),
		)
	}
	member := members[0]

	tmpPath, err := extract(member, tempDir)
	if err != nil {
		return nil, fmt.Errorf("extract %s from %s: %w", member.Name, path, err)
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove extracted HAR", slog.String("path", tmpPath), slog.String("error", err.Error()))
		}
	}()

	doc, err := decodeFile(tmpPath)
	if err != nil {
		// Report the archive member, not the temporary path.
		var coded *harerr.CodedError
		if errors.As(err, &coded) {
			c := *coded
			c.Path = path + ":" + member.Name
			return nil, &c
		}
		return nil, err
	}

	return &Archive{
		Member:  member.Name,
		Creator: doc.Creator,
		Entries: doc.Entries,
	}, nil
}

// harMembers returns the regular .har members of an archive sorted by name.
func harMembers(files []*zip.File) []*zip.File {
	var members []*zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.HasSuffix(f.Name, HarExt) {
			members = append(members, f)
		}
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Name < members[j].Name
	})
	return members
}

func extract(member *zip.File, tempDir string) (string, error) {
	rc, err := member.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	tmp, err := os.CreateTemp(tempDir, "harcsv-*"+HarExt)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// LoadDirectory decodes every .har file directly inside dir and returns
// their entries tagged with the file's base name. Subdirectories are not
// searched. A directory without captures yields no entries; a capture that
// fails to decode aborts the whole load.
func LoadDirectory(dir string) ([]Tagged, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, harerr.NotADirectory(dir)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var tagged []Tagged
	files := 0
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), HarExt) {
			continue
		}
		entries, err := LoadFile(filepath.Join(dir, de.Name()))
		if err != nil {
			return nil, err
		}
		files++
		for i, e := range entries {
			tagged = append(tagged, Tagged{Filename: de.Name(), Index: i, Entry: e})
		}
	}

	slog.Debug("loaded directory",
		slog.String("dir", dir),
		slog.Int("files", files),
		slog.Int("entries", len(tagged)),
	)
	return tagged, nil
}
