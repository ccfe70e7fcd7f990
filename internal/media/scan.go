package media

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// ReadFolderList parses a text file containing one folder path per line.
// Blank lines are ignored; paths are taken literally. A missing or unreadable
// input file is an error (the whole batch cannot start without it).
func ReadFolderList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open folder list %s: %w", path, err)
	}
	defer f.Close()

	var folders []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		folders = append(folders, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read folder list %s: %w", path, err)
	}

	return folders, nil
}

// DiscoverFolders scans each folder (non-recursive) for files on the image
// allow-list and returns their paths sorted lexicographically. A missing or
// unreadable folder is logged as a warning and skipped; the scan continues.
func DiscoverFolders(folders []string) []string {
	var paths []string

	for _, dir := range folders {
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Warn().Err(err).Str("folder", dir).Msg("Skipping unreadable folder")
			continue
		}

		found := 0
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if !IsImage(filepath.Ext(entry.Name())) {
				continue
			}
			paths = append(paths, filepath.Join(dir, entry.Name()))
			found++
		}

		log.Debug().Str("folder", dir).Int("images", found).Msg("Folder scanned")
	}

	// Sort by path for deterministic identifier assignment downstream.
	sort.Strings(paths)

	log.Info().Int("candidates", len(paths)).Int("folders", len(folders)).Msg("Discovery complete")
	return paths
}
