package testsupport

import (
	"path/filepath"
	"strings"
)

// SilenceLog is the default silencedetect output: one 4s silence at 20s.
const SilenceLog = `[silencedetect @ 0x55d5c8a0] silence_start: 20
[silencedetect @ 0x55d5c8a0] silence_end: 24 | silence_duration: 4
`

// GarbledLog has an end event with no matching start.
const GarbledLog = `[silencedetect @ 0x55d5c8a0] silence_end: 24 | silence_duration: 4
`

// StubDuration is the duration the ffprobe stub reports, in seconds.
const StubDuration = 60.0

var stubFilters = []string{
	"silencedetect", "trim", "atrim", "setpts", "asetpts", "concat",
	"fade", "overlay", "acrossfade", "fifo", "format",
}

// writeStubs installs ffprobe and ffmpeg scripts under <base>/bin.
//
// ffprobe reports a 60s video with one audio stream, or a duration of N/A
// for paths containing "broken". ffmpeg lists the filters deadair needs for
// -filters, prints the detect log (GarbledLog for paths containing
// "garbled") for silencedetect runs, and otherwise reports progress and
// writes its last argument as the rendered output.
func (b *configBuilder) writeStubs() {
	b.t.Helper()
	bin := filepath.Join(b.baseDir, "bin")
	fixtures := filepath.Join(b.baseDir, "fixtures")
	detect := filepath.Join(fixtures, "detect.txt")
	garbled := filepath.Join(fixtures, "garbled.txt")
	WriteFile(b.t, detect, b.detectLog)
	WriteFile(b.t, garbled, GarbledLog)

	ffprobe := filepath.Join(bin, "ffprobe")
	WriteExecutable(b.t, ffprobe, `#!/bin/sh
case "$*" in
  *broken*) echo '{"streams":[],"format":{"duration":"N/A"}}' ;;
  *) echo '{"streams":[{"index":0,"codec_type":"video"},{"index":1,"codec_type":"audio"}],"format":{"duration":"60.000000"}}' ;;
esac
`)

	ffmpeg := filepath.Join(bin, "ffmpeg")
	WriteExecutable(b.t, ffmpeg, `#!/bin/sh
for a; do last=$a; done
case "$*" in
  *-filters*)
    echo "Filters:"
    echo "  T.. = Timeline support"
    echo " ------"
    for f in `+strings.Join(stubFilters, " ")+`; do echo " ... $f  A->A  stub"; done ;;
  *silencedetect*garbled*|*garbled*silencedetect*) cat '`+garbled+`' >&2 ;;
  *silencedetect*) cat '`+detect+`' >&2 ;;
  *) echo "out_time_us=30000000"; echo "progress=end"; printf rendered > "$last" ;;
esac
`)

	b.cfg.FFmpeg.FFmpegBinary = ffmpeg
	b.cfg.FFmpeg.FFprobeBinary = ffprobe
}
