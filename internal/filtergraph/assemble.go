package filtergraph

import (
	"fmt"
	"strings"

	"deadair/internal/fileutil"
)

// Script is a complete filter_complex program and the labels to map.
type Script struct {
	Filters    []string
	Text       string
	VideoLabel string
	AudioLabel string
}

// Assemble emits the tree rooted at root and joins the expressions into a
// single script.
func Assemble(root *Node) Script {
	filters := Emit(root)
	return Script{
		Filters:    filters,
		Text:       strings.Join(filters, ";"),
		VideoLabel: root.VideoLabel(),
		AudioLabel: root.AudioLabel(),
	}
}

// MapArgs returns the ffmpeg -map arguments selecting the script's outputs.
func (s Script) MapArgs() []string {
	return []string{"-map", s.VideoLabel, "-map", s.AudioLabel}
}

// WriteFile atomically stores the script text for -filter_complex_script.
func (s Script) WriteFile(path string) error {
	if err := fileutil.WriteFileAtomic(path, []byte(s.Text), 0o644); err != nil {
		return fmt.Errorf("write filter script: %w", err)
	}
	return nil
}
