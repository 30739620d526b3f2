package logs

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"deadair/internal/logging"
)

// FormatLine renders a JSON run log record as
// "15:04:05 LEVEL [file] msg key=value ...". Lines that are not JSON objects
// are returned unchanged.
func FormatLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return line
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(trimmed), &record); err != nil {
		return line
	}

	var b strings.Builder
	if ts, ok := record["ts"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			ts = parsed.Local().Format(time.TimeOnly)
		}
		b.WriteString(ts)
		b.WriteByte(' ')
	}
	if level, ok := record["level"].(string); ok {
		fmt.Fprintf(&b, "%-5s ", strings.ToUpper(level))
	}
	if file, ok := record[logging.FieldFile].(string); ok && file != "" {
		fmt.Fprintf(&b, "[%s] ", filepath.Base(file))
	}
	if msg, ok := record["msg"].(string); ok {
		b.WriteString(msg)
	}

	keys := make([]string, 0, len(record))
	for key := range record {
		switch key {
		case "ts", "level", "msg", "source", logging.FieldFile:
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%v", key, record[key])
	}
	return b.String()
}
