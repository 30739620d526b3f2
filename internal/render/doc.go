// Package render executes a compiled filter script with ffmpeg and
// finalizes the result.
//
// A render writes the script to "<input>.cfs", removes any previous output,
// runs ffmpeg with -filter_complex_script and the script's map labels, and
// saves ffmpeg's stdout and stderr to "<output>.log". Progress is read from
// ffmpeg's -progress stream and logged in sampled steps. An optional AV1
// archive copy of the finished cut is produced through Drapto.
package render
