package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

const manifestPath = "META-INF/MANIFEST.MF"

// Source provides the files of a compiled program
type Source interface {
	// List returns relative paths of all files
	List(ctx context.Context) ([]string, error)
	// Read returns content of a listed file
	Read(ctx context.Context, relative string) ([]byte, error)
}

// Sink receives the files of the rewritten program
type Sink interface {
	Write(ctx context.Context, relative string, data []byte) error
	Close(ctx context.Context) error
}

// IsArchive reports whether location names a jar or zip file
func IsArchive(location string) bool {
	ext := strings.ToLower(path.Ext(location))
	return ext == ".jar" || ext == ".zip"
}

// NewSource returns a jar or a directory source for location
func NewSource(ctx context.Context, fs afs.Service, location string) (Source, error) {
	if IsArchive(location) {
		return newJarSource(ctx, fs, location)
	}
	return &dirSource{fs: fs, baseURL: location}, nil
}

// NewSink returns a jar or a directory sink for location
func NewSink(fs afs.Service, location string) Sink {
	if IsArchive(location) {
		return &jarSink{fs: fs, URL: location, entries: make(map[string][]byte)}
	}
	return &dirSink{fs: fs, baseURL: location}
}

type dirSource struct {
	fs      afs.Service
	baseURL string
}

func (s *dirSource) List(ctx context.Context) ([]string, error) {
	var result []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}
		result = append(result, path.Join(parent, info.Name()))
		return true, nil
	}
	if err := s.fs.Walk(ctx, s.baseURL, visitor); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.baseURL, err)
	}
	sort.Strings(result)
	return result, nil
}

func (s *dirSource) Read(ctx context.Context, relative string) ([]byte, error) {
	return s.fs.DownloadWithURL(ctx, url.Join(s.baseURL, relative))
}

type jarSource struct {
	files map[string]*zip.File
	names []string
}

func newJarSource(ctx context.Context, fs afs.Service, URL string) (*jarSource, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", URL, err)
	}
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", URL, err)
	}
	source := &jarSource{files: make(map[string]*zip.File)}
	for _, file := range reader.File {
		if _, ok := source.files[file.Name]; ok {
			continue
		}
		source.files[file.Name] = file
		if file.FileInfo().IsDir() {
			continue
		}
		source.names = append(source.names, file.Name)
	}
	return source, nil
}

func (s *jarSource) List(ctx context.Context) ([]string, error) {
	return s.names, nil
}

func (s *jarSource) headers() map[string]zip.FileHeader {
	result := make(map[string]zip.FileHeader, len(s.files))
	for name, file := range s.files {
		result[name] = file.FileHeader
	}
	return result
}

func (s *jarSource) Read(ctx context.Context, relative string) ([]byte, error) {
	file, ok := s.files[relative]
	if !ok || file.FileInfo().IsDir() {
		return nil, fmt.Errorf("entry %s not found", relative)
	}
	reader, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

type dirSink struct {
	fs      afs.Service
	baseURL string
}

func (s *dirSink) Write(ctx context.Context, relative string, data []byte) error {
	return s.fs.Upload(ctx, url.Join(s.baseURL, relative), 0644, bytes.NewReader(data))
}

func (s *dirSink) Close(ctx context.Context) error {
	return nil
}

// headerSource is implemented by sources keeping archive entry metadata
type headerSource interface {
	headers() map[string]zip.FileHeader
}

// headerSink reuses archive entry metadata when writing
type headerSink interface {
	inherit(headers map[string]zip.FileHeader)
}

// jarSink buffers entries and writes them sorted, manifest first, on Close.
// Inherited headers keep directories, timestamps and compression methods of the input.
type jarSink struct {
	fs      afs.Service
	URL     string
	mux     sync.Mutex
	entries map[string][]byte
	headers map[string]zip.FileHeader
}

func (s *jarSink) inherit(headers map[string]zip.FileHeader) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.headers = headers
}

func (s *jarSink) Write(ctx context.Context, relative string, data []byte) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.entries[relative] = data
	return nil
}

func (s *jarSink) Close(ctx context.Context) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	for name := range s.headers {
		if _, ok := s.entries[name]; !ok && strings.HasSuffix(name, "/") {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if ri, rj := entryRank(names[i]), entryRank(names[j]); ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
	buffer := new(bytes.Buffer)
	writer := zip.NewWriter(buffer)
	for _, name := range names {
		entry, err := s.create(writer, name)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", name, err)
		}
		if strings.HasSuffix(name, "/") {
			continue
		}
		if _, err = entry.Write(s.entries[name]); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return s.fs.Upload(ctx, s.URL, 0644, buffer)
}

func (s *jarSink) create(writer *zip.Writer, name string) (io.Writer, error) {
	header, ok := s.headers[name]
	if !ok {
		return writer.Create(name)
	}
	// sizes and checksum are recomputed, the writer adds its own timestamp and zip64 fields
	header.Extra = stripExtra(header.Extra, extendedTimestampID, zip64ExtraID)
	return writer.CreateHeader(&header)
}

// entryRank orders the manifest directory first and the manifest second
func entryRank(name string) int {
	switch name {
	case path.Dir(manifestPath) + "/":
		return 0
	case manifestPath:
		return 1
	}
	return 2
}

const (
	zip64ExtraID        = 0x0001
	extendedTimestampID = 0x5455
)

// stripExtra removes extra field blocks with the given ids
func stripExtra(extra []byte, ids ...uint16) []byte {
	var result []byte
	for len(extra) >= 4 {
		id := binary.LittleEndian.Uint16(extra)
		size := int(binary.LittleEndian.Uint16(extra[2:]))
		if 4+size > len(extra) {
			break
		}
		if !slices.Contains(ids, id) {
			result = append(result, extra[:4+size]...)
		}
		extra = extra[4+size:]
	}
	return result
}
