// Package cards exports cleaned segments as an Anki import file.
//
// Every card gets an audio clip cut from the source video with ffmpeg and a
// still frame taken from the middle of the segment. Media files are named
// after the card id and written next to the cards CSV so the whole directory
// can be dropped into Anki's collection.media folder. Existing media is left
// in place, which makes a rerun after a failure cheap.
package cards
