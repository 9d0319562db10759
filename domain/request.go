package domain

// Request is a matched bot command as handed to a feature handler:
// "boot: seen alice" in #chan from bob becomes
// {Nick: "bob", Target: "#chan", Command: "seen", Args: ["alice"]}.
type Request struct {
	Nick    string
	Target  string
	Command string
	Args    []string
}

// Outbound is one line queued for the wire, tagged with the channel or
// nick it answers.
type Outbound struct {
	Target string
	Text   string
}
