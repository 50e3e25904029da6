package main

import (
	"bytes"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const followInterval = 500 * time.Millisecond

// stdinPiped reports whether stdin carries piped data rather than a
// terminal.
func stdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

// loadStdinCmd drains piped input into a dataset. The pipe is read to
// EOF before the tab appears; stdin cannot be re-read, so there is no
// follow mode for it.
func loadStdinCmd(index int) tea.Cmd {
	return func() tea.Msg {
		records, skipped := ParseBatch(os.Stdin)
		return tabLoadedMsg{index: index, dataset: NewDataset("stdin", nil, records, skipped)}
	}
}

// recordsAppendedMsg delivers lines appended to a followed file since
// the last poll, plus the new read offset.
type recordsAppendedMsg struct {
	index   int
	records []*Record
	skipped int
	offset  int64
}

// followTickMsg re-arms the poll when nothing new arrived.
type followTickMsg struct {
	index  int
	path   string
	offset int64
}

// followCmd waits one poll interval, then reads anything the file
// gained past offset. A trailing partial line is held back until the
// writer completes it; a shrunken file is treated as rotated and read
// from the top.
func followCmd(index int, path string, offset int64) tea.Cmd {
	return tea.Tick(followInterval, func(time.Time) tea.Msg {
		again := followTickMsg{index: index, path: path, offset: offset}

		info, err := os.Stat(path)
		if err != nil {
			return again
		}
		size := info.Size()
		if size < offset {
			offset = 0
			again.offset = 0
		}
		if size == offset {
			return again
		}

		file, err := os.Open(path)
		if err != nil {
			return again
		}
		defer file.Close()
		if _, err := file.Seek(offset, io.SeekStart); err != nil {
			return again
		}

		data, err := io.ReadAll(io.LimitReader(file, size-offset))
		if err != nil {
			return again
		}
		end := bytes.LastIndexByte(data, '\n')
		if end < 0 {
			return again
		}
		data = data[:end+1]

		records, skipped := ParseBatch(bytes.NewReader(data))
		return recordsAppendedMsg{
			index:   index,
			records: records,
			skipped: skipped,
			offset:  offset + int64(len(data)),
		}
	})
}
