package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/theirongolddev/stmtburn/internal/logger"
)

// StatementExt is the extension of extracted statement text files.
const StatementExt = ".txt"

// ScanDir lists the statement text files directly inside dir, sorted by name.
// A missing directory yields no files and no error.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []DiscoveredFile
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), StatementExt) {
			continue
		}
		df, err := Discover(filepath.Join(dir, e.Name()))
		if err != nil {
			continue // vanished or unreadable between ReadDir and Stat
		}
		files = append(files, df)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Discover stats a single statement file.
func Discover(path string) (DiscoveredFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DiscoveredFile{}, err
	}
	if info.IsDir() {
		return DiscoveredFile{}, fmt.Errorf("%s is a directory", path)
	}
	base := filepath.Base(path)
	return DiscoveredFile{
		Path:    path,
		Name:    strings.TrimSuffix(base, filepath.Ext(base)),
		MtimeNs: info.ModTime().UnixNano(),
		Size:    info.Size(),
	}, nil
}

// FindByNamePart keeps the files whose base name contains part, ignoring case.
// An empty part keeps everything.
func FindByNamePart(files []DiscoveredFile, part string) []DiscoveredFile {
	if part == "" {
		return files
	}
	needle := strings.ToLower(part)
	var out []DiscoveredFile
	for _, f := range files {
		if strings.Contains(strings.ToLower(filepath.Base(f.Path)), needle) {
			out = append(out, f)
		}
	}
	return out
}

// ReadStatement returns the text content of a statement file.
func ReadStatement(df DiscoveredFile) (string, error) {
	data, err := os.ReadFile(df.Path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", df.Path, err)
	}
	return string(data), nil
}

// ParseFile reads and parses one statement file. Log lines carry the file
// path.
func (p *Parser) ParseFile(df DiscoveredFile) ParseResult {
	text, err := ReadStatement(df)
	if err != nil {
		return ParseResult{File: df, Err: err}
	}
	fp := &Parser{log: logger.WithFields(p.log, map[string]interface{}{"file": df.Path})}
	return ParseResult{File: df, Statement: fp.Parse(text)}
}
