package e2e

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testSeenTellSuite struct {
	BaseIRCSuite
}

func TestSeenTellSuite(t *testing.T) {
	suite.Run(t, &testSeenTellSuite{})
}

func (s *testSeenTellSuite) TestFullSeenTellFlow() {
	// Unique nicks so reruns against the same server never collide
	tag := uuid.New().String()[:8]
	aliceNick := "e2e-a-" + tag
	bobNick := "e2e-b-" + tag
	channel := s.Config.Channel
	bot := s.Config.BotNick

	alice := s.Connect("Alice connection", aliceNick)
	defer alice.Close()
	bob := s.Connect("Bob connection", bobNick)
	defer bob.Close()

	// --- STEP 1: ACTIVITY IS OBSERVED ---
	s.Run("Step 1: Channel activity lands in the seen store", func() {
		alice.Say(channel, "morning everyone, tag "+tag)
		// The bot records inline, but give the server time to relay
		reply := bob.WaitFor("tag "+tag, 15*time.Second)
		s.Require().NotEmpty(reply, "Bob never saw Alice's line relayed")
	})

	// --- STEP 2: SEEN QUERY ---
	s.Run("Step 2: Bot answers a seen query about Alice", func() {
		bob.Say(channel, fmt.Sprintf("%s: seen %s", bot, aliceNick))
		reply := bob.WaitFor(aliceNick+" was last seen", 15*time.Second)
		s.Require().NotEmpty(reply, "Bot never answered the seen query")
		s.T().Logf("Verified: %s", reply)
	})

	// --- STEP 3: MEMO QUEUED ---
	s.Run("Step 3: Bot accepts a memo for Alice", func() {
		bob.Say(channel, fmt.Sprintf("%s: tell %s lunch at noon %s?", bot, aliceNick, tag))
		reply := bob.WaitFor("ok, I'll tell "+aliceNick, 15*time.Second)
		s.Require().NotEmpty(reply, "Bot never acknowledged the memo")
	})

	// --- STEP 4: MEMO DELIVERED ON NEXT UTTERANCE ---
	s.Run("Step 4: Memo is delivered when Alice speaks again", func() {
		alice.Say(channel, "back now")
		reply := alice.WaitFor(fmt.Sprintf("%s, message from %s", aliceNick, bobNick), 15*time.Second)
		s.Require().NotEmpty(reply, "Memo was never delivered to Alice")
		s.T().Logf("Verified: %s", reply)
	})

	// --- STEP 5: MEMO DOES NOT REPEAT ---
	s.Run("Step 5: A delivered memo is gone from the store", func() {
		alice.Say(channel, "still here")
		reply := alice.WaitFor("message from "+bobNick, 5*time.Second)
		s.Require().Empty(reply, "Memo was delivered twice")
	})
}
