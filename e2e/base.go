package e2e

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

// BaseIRCSuite connects throwaway clients to a live server the bot is on.
// It drives the bot the way a human in the channel would.
type BaseIRCSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseIRCSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr == "" {
		s.T().Skip("E2E_SERVER_ADDR not set, skipping live-server suite")
	}
}

// Connect registers a client under nick, joins the suite channel and
// returns it ready to speak. The header makes each client's traffic easy
// to spot in verbose logs.
func (s *BaseIRCSuite) Connect(name, nick string) *wireClient {
	t := s.T()
	header := fmt.Sprintf("  ====== %s (%s) ======", name, nick)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	conn, err := net.DialTimeout("tcp", s.Config.ServerAddr, 10*time.Second)
	s.Require().NoError(err, "Failed to connect to IRC server at "+s.Config.ServerAddr)

	c := &wireClient{
		t:       t,
		conn:    conn,
		scanner: bufio.NewScanner(conn),
		debug:   s.Config.DebugWire,
	}
	c.Send("NICK " + nick)
	c.Send(fmt.Sprintf("USER %s 0 * :%s", nick, nick))
	s.Require().NotEmpty(c.WaitFor(" 001 ", 15*time.Second), "Server never completed registration")
	c.Send("JOIN " + s.Config.Channel)
	s.Require().NotEmpty(c.WaitFor("JOIN", 15*time.Second), "Server never confirmed the join")
	return c
}

// wireClient is a minimal protocol participant: raw line in, raw line out,
// with keepalives answered so long waits do not get the client dropped.
type wireClient struct {
	t       *testing.T
	conn    net.Conn
	scanner *bufio.Scanner
	debug   bool
}

func (c *wireClient) Send(line string) {
	if c.debug {
		c.t.Logf(">> %s", line)
	}
	_, err := c.conn.Write([]byte(line + "\r\n"))
	if err != nil {
		c.t.Fatalf("wire write failed: %v", err)
	}
}

// Say sends a channel message.
func (c *wireClient) Say(channel, text string) {
	c.Send(fmt.Sprintf("PRIVMSG %s :%s", channel, text))
}

// WaitFor reads lines until one contains substr or the deadline passes,
// answering PINGs along the way. Returns the matching line, empty on
// timeout.
func (c *wireClient) WaitFor(substr string, timeout time.Duration) string {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		_ = c.conn.SetReadDeadline(deadline)
		if !c.scanner.Scan() {
			return ""
		}
		line := c.scanner.Text()
		if c.debug {
			c.t.Logf("<< %s", line)
		}
		if strings.HasPrefix(line, "PING") {
			c.Send("PONG " + strings.TrimPrefix(line, "PING "))
			continue
		}
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}

func (c *wireClient) Close() {
	c.Send("QUIT :done")
	_ = c.conn.Close()
}
