package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Find_Links_In_Chat_Text(t *testing.T) {
	req := require.New(t)
	finder, err := NewLinkFinder()
	req.NoError(err)

	links := finder.Find("check https://example.com/a and http://example.org/b?q=1 out")
	req.Equal([]string{"https://example.com/a", "http://example.org/b?q=1"}, links)
}

func Test_Find_Trims_Trailing_Punctuation(t *testing.T) {
	req := require.New(t)
	finder, err := NewLinkFinder()
	req.NoError(err)

	links := finder.Find("have you seen https://example.com/page?!")
	req.Equal([]string{"https://example.com/page"}, links)
}

func Test_Find_Ignores_Plain_Text_And_Bare_Schemes(t *testing.T) {
	req := require.New(t)
	finder, err := NewLinkFinder()
	req.NoError(err)

	req.Empty(finder.Find("no links in here"))
	req.Empty(finder.Find("the prefix is https:// followed by a host"))
}
