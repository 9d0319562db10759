package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"bootbot/domain"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Record_And_Get_Seen(t *testing.T) {
	req := require.New(t)
	repository := NewSeenRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC().Truncate(time.Millisecond)
	rec := domain.SeenRecord{Nick: "Alice", Snippet: "saying: hello", Channel: "#general", At: at}
	req.NoError(repository.Record(domain.NewIdentity("Alice"), rec))

	got, found, err := repository.Get(domain.NewIdentity("alice"))
	req.NoError(err)
	req.True(found)
	req.Equal(rec, got)
}

func Test_Get_Seen_Unknown_Identity(t *testing.T) {
	req := require.New(t)
	repository := NewSeenRepository(openTestDB(t), slog.Default())

	_, found, err := repository.Get(domain.NewIdentity("bob"))
	req.NoError(err)
	req.False(found)
}

func Test_Seen_Keeps_Most_Recent_Line(t *testing.T) {
	req := require.New(t)
	repository := NewSeenRepository(openTestDB(t), slog.Default())
	identity := domain.NewIdentity("carol")

	at := time.Now().UTC().Truncate(time.Millisecond)
	newer := domain.SeenRecord{Nick: "carol", Snippet: "saying: second", Channel: "#x", At: at}
	older := domain.SeenRecord{Nick: "carol", Snippet: "saying: first", Channel: "#x", At: at.Add(-time.Minute)}

	req.NoError(repository.Record(identity, newer))
	// A slow handler completing late must not roll the record back.
	req.NoError(repository.Record(identity, older))

	got, found, err := repository.Get(identity)
	req.NoError(err)
	req.True(found)
	req.Equal(newer, got)
}

func Test_Seen_Is_Case_Insensitive(t *testing.T) {
	req := require.New(t)
	repository := NewSeenRepository(openTestDB(t), slog.Default())

	rec := domain.SeenRecord{Nick: "DaVe", Snippet: "saying: hi", Channel: "#x", At: time.Now().UTC()}
	req.NoError(repository.Record(domain.NewIdentity("DaVe"), rec))

	_, found, err := repository.Get(domain.NewIdentity("dave"))
	req.NoError(err)
	req.True(found)
}
