package ampell

// Version is the interpreter version reported by the CLI.
const Version = "0.3.0"

// BuildDate may be overridden at link time (-ldflags "-X ...BuildDate=...").
var BuildDate = "unknown"
