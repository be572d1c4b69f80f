package editor

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CommentPrefix marks preamble lines dropped after editing.
const CommentPrefix = "#"

// ComposeContent creates the text presented to the editor: a comment
// preamble followed by the Markdown to edit.
func ComposeContent(markdown string) string {
	var b bytes.Buffer
	b.WriteString("# tablemark draft\n")
	b.WriteString("# Lines starting with '#' before the first other line are ignored.\n")
	b.WriteString("# Save and quit to render; leave the file empty to abort.\n")
	if markdown != "" {
		if !strings.HasSuffix(markdown, "\n") {
			markdown += "\n"
		}
		b.WriteString(markdown)
	}
	return b.String()
}

// Skeleton returns an empty table with the given number of columns, one
// header row and one body row.
func Skeleton(columns int) string {
	if columns < 2 {
		columns = 2
	}
	var b strings.Builder
	row := strings.Repeat("|  ", columns) + "|\n"
	b.WriteString(row)
	b.WriteString(strings.Repeat("| --- ", columns) + "|\n")
	b.WriteString(row)
	return b.String()
}

// ParseEdited drops the leading comment preamble and surrounding blank lines.
func ParseEdited(s string) string {
	lines := strings.Split(s, "\n")
	i := 0
	for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), CommentPrefix) {
		i++
	}
	return strings.Trim(strings.Join(lines[i:], "\n"), "\n")
}

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// PathFor returns a scratch file path for a draft name.
func PathFor(name string) (string, error) {
	file := sanitizeName(name) + ".tablemark.md"
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "tablemark", file), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "tablemark", "edit", file), nil
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "draft"
	}
	return b.String()
}

func writeFile0600(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, fs.FileMode(0o600))
}

// OpenAt opens the editor at path with initial content and returns final bytes and whether it changed.
func OpenAt(path string, initial []byte) (final []byte, changed bool, err error) {
	if err := writeFile0600(path, initial); err != nil {
		return nil, false, err
	}
	// Honor VISUAL/EDITOR including flags by running via a shell wrapper.
	ed := os.Getenv("VISUAL")
	if ed == "" {
		ed = os.Getenv("EDITOR")
	}
	var cmd *exec.Cmd
	if strings.TrimSpace(ed) != "" {
		cmd = exec.Command("sh", "-c", "$EDITORCMD \"$FILEPATH\"")
		cmd.Env = append(os.Environ(), "EDITORCMD="+ed, "FILEPATH="+path)
	} else {
		prog, err := PreferredEditor()
		if err != nil {
			return nil, false, err
		}
		cmd = exec.Command(prog, path)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, false, err
	}
	out, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(out, initial), nil
}
