package tinysplit

// Version is the release of the tinysplit module and its command-line tool.
var Version = "0.3.0"
