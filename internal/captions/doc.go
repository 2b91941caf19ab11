// Package captions turns narration text into time-coded caption tracks and
// renders them as SRT or ASS. Sentence time slices are allocated
// proportionally to character counts over the clip duration, with the final
// sentence absorbing rounding drift so a track always covers the clip
// exactly.
package captions
