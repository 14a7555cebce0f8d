// Package lesson loads ordered glyph lists from files.
package lesson

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load reads one glyph id per line from path. Blank lines and lines starting
// with # are skipped, and repeated ids keep their first position.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only lesson file.
			_ = cerr
		}
	}()

	var ids []string
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("lesson is empty")
	}
	return ids, nil
}

// Filter keeps the ids that known accepts, preserving order, and returns the
// rejected ones separately.
func Filter(ids []string, known func(string) bool) (kept, missing []string) {
	for _, id := range ids {
		if known(id) {
			kept = append(kept, id)
		} else {
			missing = append(missing, id)
		}
	}
	return kept, missing
}
