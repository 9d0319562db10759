package irc

import (
	"strings"
	"testing"

	"bootbot/errors"

	"github.com/stretchr/testify/require"
)

func Test_Decode_Privmsg_With_Prefix(t *testing.T) {
	req := require.New(t)
	m, err := Decode(":alice!~al@host.example PRIVMSG #general :hello there\r\n")
	req.NoError(err)
	req.Equal("PRIVMSG", m.Command)
	req.Equal(Prefix{Nick: "alice", User: "~al", Host: "host.example"}, m.Prefix)
	req.Equal([]string{"#general"}, m.Params)
	req.Equal("hello there", m.Trailing)
}

func Test_Decode_Server_Numeric(t *testing.T) {
	req := require.New(t)
	m, err := Decode(":irc.example.net 001 boot :Welcome to the network")
	req.NoError(err)
	req.Equal("001", m.Command)
	req.Equal("irc.example.net", m.Prefix.Nick)
	req.Equal([]string{"boot"}, m.Params)
	req.Equal("Welcome to the network", m.Trailing)
}

func Test_Decode_Ping_Without_Prefix(t *testing.T) {
	req := require.New(t)
	m, err := Decode("PING :token-123")
	req.NoError(err)
	req.Equal("PING", m.Command)
	req.Equal("token-123", m.Trailing)
}

func Test_Decode_Tags_Are_Tolerated(t *testing.T) {
	req := require.New(t)
	m, err := Decode("@time=2024-01-01T00:00:00Z;id=77 :bob PRIVMSG #x :hey")
	req.NoError(err)
	req.Equal("PRIVMSG", m.Command)
	req.Equal("77", m.Tags["id"])
	req.Equal("bob", m.Prefix.Nick)
}

func Test_Decode_Rejects_Empty_And_Prefix_Only(t *testing.T) {
	req := require.New(t)
	_, err := Decode("")
	req.ErrorIs(err, errors.ErrMalformedLine)
	_, err = Decode(":prefixonly")
	req.ErrorIs(err, errors.ErrMalformedLine)
}

func Test_Decode_Rejects_Overlong_Line(t *testing.T) {
	req := require.New(t)
	_, err := Decode("PRIVMSG #x :" + strings.Repeat("a", MaxLineLen))
	req.ErrorIs(err, errors.ErrLineTooLong)
}

func Test_Encode_Decode_Round_Trip(t *testing.T) {
	req := require.New(t)
	lines := []string{
		"PRIVMSG #general :hello there\r\n",
		":boot!b@h JOIN #general\r\n",
		"PONG :token\r\n",
		":irc.example.net 433 * boot :Nickname is already in use.\r\n",
	}
	for _, line := range lines {
		m, err := Decode(line)
		req.NoError(err)
		again, err := Decode(Encode(m))
		req.NoError(err)
		req.Equal(m.Command, again.Command)
		req.Equal(m.Params, again.Params)
		req.Equal(m.Trailing, again.Trailing)
	}
}

func Test_Split_Privmsg_Prefers_Whitespace(t *testing.T) {
	req := require.New(t)
	text := strings.TrimSpace(strings.Repeat("word ", 200))
	msgs := SplitPrivmsg("#general", text)
	req.Greater(len(msgs), 1)
	var rebuilt []string
	for _, m := range msgs {
		req.LessOrEqual(len(Encode(m)), MaxLineLen)
		// No mid-word cut: every chunk is whole words.
		for _, w := range strings.Fields(m.Trailing) {
			req.Equal("word", w)
		}
		rebuilt = append(rebuilt, m.Trailing)
	}
	req.Equal(text, strings.Join(rebuilt, " "))
}

func Test_Split_Privmsg_Cuts_Overlong_Word(t *testing.T) {
	req := require.New(t)
	msgs := SplitPrivmsg("#x", strings.Repeat("a", 1200))
	req.Greater(len(msgs), 1)
	for _, m := range msgs {
		req.LessOrEqual(len(Encode(m)), MaxLineLen)
	}
}

func Test_Response_Target(t *testing.T) {
	req := require.New(t)
	channelMsg, err := Decode(":alice!a@h PRIVMSG #general :boot: seen bob")
	req.NoError(err)
	req.Equal("#general", channelMsg.ResponseTarget("boot"))

	queryMsg, err := Decode(":alice!a@h PRIVMSG boot :seen bob")
	req.NoError(err)
	req.Equal("alice", queryMsg.ResponseTarget("boot"))
}
