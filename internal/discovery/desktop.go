package discovery

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// desktopEntry holds the keys of a freedesktop .desktop file the launcher uses.
type desktopEntry struct {
	Name      string
	Exec      string
	Comment   string
	Icon      string
	Type      string
	NoDisplay bool
	Hidden    bool
}

// launchable reports whether the entry should appear in the Apps catalog.
func (d desktopEntry) launchable() bool {
	if d.Name == "" || d.Exec == "" || d.NoDisplay || d.Hidden {
		return false
	}
	return d.Type == "" || d.Type == "Application"
}

func readDesktopFile(path string) (desktopEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return desktopEntry{}, err
	}
	defer f.Close()
	return parseDesktopEntry(f)
}

// parseDesktopEntry reads the [Desktop Entry] group. Localised keys such as
// Name[de] and other groups (actions) are ignored.
func parseDesktopEntry(r io.Reader) (desktopEntry, error) {
	var d desktopEntry
	inEntry := false

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inEntry = line == "[Desktop Entry]"
			continue
		}
		if !inEntry {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "Name":
			d.Name = value
		case "Exec":
			d.Exec = stripFieldCodes(value)
		case "Comment":
			d.Comment = value
		case "Icon":
			d.Icon = value
		case "Type":
			d.Type = value
		case "NoDisplay":
			d.NoDisplay = value == "true"
		case "Hidden":
			d.Hidden = value == "true"
		}
	}
	if err := sc.Err(); err != nil {
		return desktopEntry{}, fmt.Errorf("read desktop entry: %w", err)
	}
	return d, nil
}

// stripFieldCodes removes %f, %U and the other Exec field codes, which only
// make sense when a file manager passes arguments. "%%" becomes "%".
func stripFieldCodes(exec string) string {
	var b strings.Builder
	for i := 0; i < len(exec); i++ {
		c := exec[i]
		if c != '%' || i+1 >= len(exec) {
			b.WriteByte(c)
			continue
		}
		i++
		if exec[i] == '%' {
			b.WriteByte('%')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
