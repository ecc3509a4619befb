package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spaghettifunk/meshview/engine/core"
)

// TabularConfig describes the delimited text files point data comes in.
type TabularConfig struct {
	Delimiter rune
	// QuoteChar only matters when Quoting is enabled.
	QuoteChar rune
	Quoting   bool
	// Every character in TrimChars is stripped from both ends of a cell.
	TrimChars string
	// 1-based line of the header; lines above it are ignored.
	HeaderRow int
}

func DefaultTabularConfig() TabularConfig {
	return TabularConfig{
		Delimiter: ',',
		QuoteChar: '~',
		Quoting:   false,
		TrimChars: " \"",
		HeaderRow: 1,
	}
}

// Table holds the raw cells of a tabular file, addressed by column name.
type Table struct {
	Header  []string
	Rows    [][]string
	columns map[string]int
}

// OpenTable reads the file at path. Errors are *core.LoadError values of
// kind SourceUnreadable.
func OpenTable(path string, cfg TabularConfig) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewLoadError(core.SourceUnreadable, path, err)
	}
	defer f.Close()

	t, err := ReadTable(f, cfg)
	if err != nil {
		return nil, core.NewLoadError(core.SourceUnreadable, path, err)
	}
	return t, nil
}

func ReadTable(r io.Reader, cfg TabularConfig) (*Table, error) {
	if cfg.HeaderRow < 1 {
		cfg.HeaderRow = 1
	}

	t := &Table{columns: map[string]int{}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if line < cfg.HeaderRow {
			continue
		}
		text := strings.TrimRight(scanner.Text(), "\r")
		if line == cfg.HeaderRow {
			text = strings.TrimPrefix(text, "\ufeff")
			t.Header = splitRecord(text, cfg)
			for i, name := range t.Header {
				if _, dup := t.columns[name]; !dup {
					t.columns[name] = i
				}
			}
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		t.Rows = append(t.Rows, splitRecord(text, cfg))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if line < cfg.HeaderRow {
		return nil, fmt.Errorf("no header row (expected on line %d, file has %d lines)", cfg.HeaderRow, line)
	}
	return t, nil
}

func splitRecord(text string, cfg TabularConfig) []string {
	var fields []string
	if !cfg.Quoting {
		fields = strings.Split(text, string(cfg.Delimiter))
	} else {
		var b strings.Builder
		quoted := false
		for _, r := range text {
			switch {
			case r == cfg.QuoteChar:
				quoted = !quoted
			case r == cfg.Delimiter && !quoted:
				fields = append(fields, b.String())
				b.Reset()
			default:
				b.WriteRune(r)
			}
		}
		fields = append(fields, b.String())
	}
	for i := range fields {
		fields[i] = strings.Trim(fields[i], cfg.TrimChars)
	}
	return fields
}

// Column returns the position of the named column.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.columns[name]
	return i, ok
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// Float converts the cell at (row, col). Rows shorter than col yield an error.
func (t *Table) Float(row, col int) (float32, error) {
	cells := t.Rows[row]
	if col >= len(cells) {
		return 0, fmt.Errorf("row has %d cells, no value for column %d", len(cells), col)
	}
	f, err := strconv.ParseFloat(cells[col], 32)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", cells[col])
	}
	return float32(f), nil
}
