package irc

import (
	"strings"
)

// Encode renders a Message as one wire line, CRLF terminated.
// The caller is responsible for keeping the result under MaxLineLen;
// SplitPrivmsg does that for chat text.
func Encode(m Message) string {
	var b strings.Builder
	if p := m.Prefix.String(); p != "" {
		b.WriteString(":")
		b.WriteString(p)
		b.WriteString(" ")
	}
	b.WriteString(m.Command)
	for _, p := range m.Params {
		b.WriteString(" ")
		b.WriteString(p)
	}
	if m.HasTrailing || m.Trailing != "" {
		b.WriteString(" :")
		b.WriteString(m.Trailing)
	}
	b.WriteString("\r\n")
	return b.String()
}

// Privmsg builds a PRIVMSG to target.
func Privmsg(target, text string) Message {
	return Message{Command: "PRIVMSG", Params: []string{target}, Trailing: text, HasTrailing: true}
}

// Pong answers a PING challenge with its token.
func Pong(token string) Message {
	return Message{Command: "PONG", Trailing: token, HasTrailing: true}
}

// Nick requests a nickname.
func Nick(nick string) Message {
	return Message{Command: "NICK", Params: []string{nick}}
}

// User sends the registration identity.
func User(user, realname string) Message {
	return Message{Command: "USER", Params: []string{user, "0", "*"}, Trailing: realname, HasTrailing: true}
}

// Join requests channel membership.
func Join(channel string) Message {
	return Message{Command: "JOIN", Params: []string{channel}}
}

// Quit announces a clean disconnect.
func Quit(reason string) Message {
	return Message{Command: "QUIT", Trailing: reason, HasTrailing: true}
}

// SplitPrivmsg splits text into as many PRIVMSGs as needed so that no
// encoded line exceeds MaxLineLen. Splits happen at whitespace boundaries
// when one exists in the chunk; only overlong single words are cut mid-word.
func SplitPrivmsg(target, text string) []Message {
	// "PRIVMSG <target> :<text>\r\n"
	overhead := len("PRIVMSG ") + len(target) + len(" :") + len("\r\n")
	room := MaxLineLen - overhead
	if room < 1 {
		room = 1
	}

	var out []Message
	for len(text) > 0 {
		if len(text) <= room {
			out = append(out, Privmsg(target, text))
			break
		}
		cut := room
		if idx := strings.LastIndexAny(text[:room+1], " \t"); idx > 0 {
			cut = idx
		}
		out = append(out, Privmsg(target, strings.TrimRight(text[:cut], " \t")))
		text = strings.TrimLeft(text[cut:], " \t")
	}
	return out
}
