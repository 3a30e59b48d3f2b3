package subtitle

import "time"

// Sample returns the demo track shown when no subtitle file is given.
func Sample() []Cue {
	s := func(n int) time.Duration { return time.Duration(n) * time.Second }
	return []Cue{
		{Start: s(5), End: s(8), Text: "Welcome to the video player"},
		{Start: s(10), End: s(13), Text: "This is a subtitle example"},
		{Start: s(15), End: s(18), Text: "Enjoy your video!"},
		{Start: s(20), End: s(23), Text: "Live comments float across the top"},
		{Start: s(25), End: s(28), Text: "Press enter to send one"},
	}
}
