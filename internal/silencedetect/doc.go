// Package silencedetect runs ffmpeg's silencedetect filter over one audio
// stream of a video and returns the raw event log.
//
// Logs are cached beside the video as "<video>.sc<min_silence>" so repeated
// planning runs skip the full decode. The first cache line records the
// detection settings; a cache written with different settings is treated as
// a miss. Cache reads and writes hold an advisory flock on "<cache>.lock".
package silencedetect
