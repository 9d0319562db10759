// Package irc converts raw newline-delimited protocol lines to and from
// structured messages. It is stateless; framing errors are reported to the
// caller and never panic.
package irc

import (
	"fmt"
	"strings"

	"bootbot/errors"
)

// MaxLineLen is the protocol limit for one line, CRLF included.
const MaxLineLen = 512

// Prefix is the optional message source: "nick!user@host".
type Prefix struct {
	Nick string
	User string
	Host string
}

func (p Prefix) String() string {
	out := p.Nick
	if p.User != "" {
		out += "!" + p.User
	}
	if p.Host != "" {
		out += "@" + p.Host
	}
	return out
}

// Message is one parsed protocol line.
type Message struct {
	Tags     map[string]string
	Prefix   Prefix
	Command  string
	Params   []string
	Trailing string
	// HasTrailing distinguishes an empty trailing parameter (": ") from no
	// trailing parameter at all, so Encode can round-trip both.
	HasTrailing bool
}

// Decode parses a raw line (CRLF optional) into a Message.
// It fails with errors.ErrLineTooLong past the protocol limit and
// errors.ErrMalformedLine when no command token is present.
func Decode(raw string) (Message, error) {
	if len(raw) > MaxLineLen {
		return Message{}, fmt.Errorf("%w: %d bytes", errors.ErrLineTooLong, len(raw))
	}
	line := strings.TrimRight(raw, "\r\n")

	var m Message

	// IRCv3 message tags are tolerated and carried, never interpreted.
	if strings.HasPrefix(line, "@") {
		idx := strings.Index(line, " ")
		if idx < 0 {
			return Message{}, fmt.Errorf("%w: tags without command", errors.ErrMalformedLine)
		}
		m.Tags = parseTags(line[1:idx])
		line = strings.TrimLeft(line[idx+1:], " ")
	}

	if strings.HasPrefix(line, ":") {
		idx := strings.Index(line, " ")
		if idx < 0 {
			return Message{}, fmt.Errorf("%w: prefix without command", errors.ErrMalformedLine)
		}
		m.Prefix = parsePrefix(line[1:idx])
		line = strings.TrimLeft(line[idx+1:], " ")
	}

	if line == "" {
		return Message{}, fmt.Errorf("%w: empty line", errors.ErrMalformedLine)
	}

	if idx := strings.Index(line, " :"); idx >= 0 {
		m.Trailing = line[idx+2:]
		m.HasTrailing = true
		line = line[:idx]
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Message{}, fmt.Errorf("%w: no command token", errors.ErrMalformedLine)
	}
	m.Command = strings.ToUpper(fields[0])
	m.Params = fields[1:]
	return m, nil
}

func parsePrefix(s string) Prefix {
	var p Prefix
	rest := s
	if idx := strings.Index(rest, "@"); idx >= 0 {
		p.Host = rest[idx+1:]
		rest = rest[:idx]
	}
	if idx := strings.Index(rest, "!"); idx >= 0 {
		p.User = rest[idx+1:]
		rest = rest[:idx]
	}
	p.Nick = rest
	return p
}

func parseTags(s string) map[string]string {
	tags := make(map[string]string)
	for _, kv := range strings.Split(s, ";") {
		if kv == "" {
			continue
		}
		k, v, _ := strings.Cut(kv, "=")
		tags[k] = v
	}
	return tags
}

// ResponseTarget is where a reply to this message belongs: the channel it
// was said in, or the sender's nick for a private message.
func (m Message) ResponseTarget(ownNick string) string {
	if len(m.Params) == 0 {
		return m.Prefix.Nick
	}
	target := m.Params[0]
	if strings.EqualFold(target, ownNick) {
		return m.Prefix.Nick
	}
	return target
}

// IsChannel reports whether the first parameter names a channel.
func (m Message) IsChannel() bool {
	return len(m.Params) > 0 && strings.HasPrefix(m.Params[0], "#")
}
