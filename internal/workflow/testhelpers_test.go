package workflow

import (
	"testing"

	"deadair/internal/config"
	"deadair/internal/testsupport"
)

const (
	goodLog    = testsupport.SilenceLog
	garbledLog = testsupport.GarbledLog
)

type testEnv struct {
	cfg      *config.Config
	inputDir string
}

// newTestEnv builds a config backed by the testsupport ffmpeg and ffprobe
// stubs: "broken" in a path yields no duration and "garbled" a malformed log.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedFFmpeg())
	return &testEnv{cfg: cfg, inputDir: cfg.Paths.InputDir}
}

func (e *testEnv) addVideo(t *testing.T, rel string) string {
	t.Helper()
	return testsupport.AddVideo(t, e.cfg, rel)
}
