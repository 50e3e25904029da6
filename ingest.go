package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// ParseBatch reads newline-delimited records from r. Blank lines are
// ignored; malformed lines are skipped and counted, never aborting the
// batch.
func ParseBatch(r io.Reader) ([]*Record, int) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 4*1024*1024)

	var records []*Record
	skipped := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := ParseRecord([]byte(line))
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		// A scan failure (such as a line past the buffer cap) loses the
		// rest of the input; count it rather than dropping it silently.
		skipped++
		log.Printf("scan aborted: %v", err)
	}
	return records, skipped
}

// LoadFile parses one file into a dataset.
func LoadFile(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	records, skipped := ParseBatch(file)
	if skipped > 0 {
		log.Printf("%s: skipped %d malformed lines", path, skipped)
	}
	return NewDataset(filepath.Base(path), []string{path}, records, skipped), nil
}

// LoadFiles parses several files into one merged dataset.
func LoadFiles(paths []string) (*Dataset, error) {
	var records []*Record
	skipped := 0
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		recs, skip := ParseBatch(file)
		file.Close()
		records = append(records, recs...)
		skipped += skip
	}
	if skipped > 0 {
		log.Printf("merge: skipped %d malformed lines", skipped)
	}
	return NewDataset(mergedTitle(paths), paths, records, skipped), nil
}

// mergedTitle names a merged tab: "a + b" for two files, "N merged
// files" for three or more.
func mergedTitle(paths []string) string {
	switch len(paths) {
	case 0:
		return "empty"
	case 1:
		return filepath.Base(paths[0])
	case 2:
		return filepath.Base(paths[0]) + " + " + filepath.Base(paths[1])
	default:
		return fmt.Sprintf("%d merged files", len(paths))
	}
}
