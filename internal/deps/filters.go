package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// RequiredFilters lists the ffmpeg filters the detect and render stages use.
var RequiredFilters = []string{
	"silencedetect",
	"trim",
	"atrim",
	"setpts",
	"asetpts",
	"concat",
	"fade",
	"overlay",
	"acrossfade",
	"fifo",
	"format",
}

// CheckFilters runs `ffmpeg -filters` and reports which of the named filters
// the binary lacks.
func CheckFilters(ctx context.Context, ffmpegBinary string, names []string) ([]string, error) {
	binary := strings.TrimSpace(ffmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, binary, "-hide_banner", "-filters") //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("list ffmpeg filters: %w", err)
	}
	available := parseFilterList(output)
	var missing []string
	for _, name := range names {
		if _, ok := available[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// parseFilterList reads the table printed by `ffmpeg -filters`. Data rows
// start with a flags column followed by the filter name.
func parseFilterList(output []byte) map[string]struct{} {
	filters := make(map[string]struct{})
	scanner := bufio.NewScanner(bytes.NewReader(output))
	inTable := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "---") || strings.HasPrefix(line, "Filters:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if !inTable {
			// Legend lines look like "T.. = Timeline support"; the table
			// starts at the first row whose second field is not "=".
			if fields[1] == "=" {
				continue
			}
			inTable = true
		}
		filters[fields[1]] = struct{}{}
	}
	return filters
}
