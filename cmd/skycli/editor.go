package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const editorHint = `
# Write your post above. Lines starting with '#' are ignored.
# Save and quit to publish, leave empty to cancel.
`

// messageFromEditor opens $EDITOR (falling back to vim, then vi) on a
// temp file and returns the cleaned-up contents. An empty result means
// the user cancelled.
func messageFromEditor() (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		for _, candidate := range []string{"vim", "vi"} {
			if path, err := exec.LookPath(candidate); err == nil {
				editor = path
				break
			}
		}
	}
	if editor == "" {
		return "", fmt.Errorf("no editor found, set $EDITOR or pass --message")
	}

	f, err := os.CreateTemp("", "skycli-post-*.txt")
	if err != nil {
		return "", err
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(editorHint); err != nil {
		f.Close()
		return "", err
	}
	f.Close()

	cmd := exec.Command(editor, f.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor exited with error: %w", err)
	}

	b, err := os.ReadFile(f.Name())
	if err != nil {
		return "", err
	}
	return stripComments(string(b)), nil
}

// stripComments drops '#'-prefixed lines and trims surrounding
// whitespace from what is left.
func stripComments(s string) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
