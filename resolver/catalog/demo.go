package catalog

const demoBase = "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/"

// Demo returns the built-in catalog of freely licensed sample films.
func Demo() *Catalog {
	return New([]Entry{
		{Title: "Big Buck Bunny", Locator: demoBase + "BigBuckBunny.mp4", Tags: []string{"movie", "animation"}},
		{Title: "Elephants Dream", Locator: demoBase + "ElephantsDream.mp4", Tags: []string{"film", "animation"}},
		{Title: "Sintel", Locator: demoBase + "Sintel.mp4", Tags: []string{"cinema", "fantasy"}},
		{Title: "Tears of Steel", Locator: demoBase + "TearsOfSteel.mp4", Tags: []string{"film", "science fiction"}},
		{Title: "For Bigger Blazes", Locator: demoBase + "ForBiggerBlazes.mp4", Tags: []string{"trailer"}},
	}, "Big Buck Bunny")
}
