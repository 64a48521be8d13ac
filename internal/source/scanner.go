// Package source discovers catalog spreadsheets and decodes them into rows.
package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FormatOf returns the catalog format for a path based on its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// ScanDir lists the catalog files directly inside dir, newest first.
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
		if e.IsDir() {
			continue
		}
		name := e.Name()
		// Skip Excel lock files ("~$listino.xlsx") and dotfiles.
		if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			continue
		}

		format, err := FormatOf(name)
		if err != nil {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		files = append(files, DiscoveredFile{
			Path:    filepath.Join(dir, name),
			Name:    strings.TrimSuffix(name, filepath.Ext(name)),
			Format:  format,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

// Latest returns the most recently modified catalog in dir.
func Latest(dir string) (DiscoveredFile, bool, error) {
	files, err := ScanDir(dir)
	if err != nil || len(files) == 0 {
		return DiscoveredFile{}, false, err
	}
	return files[0], true, nil
}
