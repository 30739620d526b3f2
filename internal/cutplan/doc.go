// Package cutplan turns silence intervals into an ordered edit schedule.
//
// Each silence is shortened to a small margin on either side: the kept span
// before it ends StartFraction*Window seconds into the silence, and the kept
// span after it starts (1-StartFraction)*Window seconds before the silence
// ends. Adjacent kept spans are joined with a crossfade of FadeLength
// seconds, shrunk when a span is too short to hold it.
package cutplan
