package seedfile

// Entry is one bookmark in the seed file.
// Rating accepts a YAML number or a numeric string.
type Entry struct {
	Title       string      `yaml:"title"`
	URL         string      `yaml:"url"`
	Description string      `yaml:"description"`
	Rating      interface{} `yaml:"rating"`
}

// Config is the root structure of the seed file:
//
//	bookmarks:
//	  - title: Go
//	    url: https://go.dev
//	    rating: 5
type Config struct {
	Bookmarks []Entry `yaml:"bookmarks"`
}
