// Command viewer dumps the bot's durable state (seen records and queued
// memos) as tables, opening the store read-only so it can run next to a
// live bot.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"bootbot/domain"
	"bootbot/repositories"

	"github.com/mama165/sdk-go/logs"
)

func main() {
	dbPath := flag.String("db", "./badger", "Path to badger DB")
	flag.Parse()

	// BypassLockGuard allows opening while the bot holds the lock.
	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	logger := logs.GetLoggerFromString("WARN")
	seenRepository := repositories.NewSeenRepository(db, logger)
	notificationRepository := repositories.NewNotificationRepository(db, logger)

	color.Bold.Println("Seen records")
	seenTable := newTable([]string{"Identity", "Nick", "Last Seen", "Channel", "Snippet"})
	err = seenRepository.All(func(identity domain.Identity, rec domain.SeenRecord) error {
		seenTable.Append([]string{
			identity.String(),
			rec.Nick,
			rec.At.Format(time.RFC822),
			rec.Channel,
			rec.Snippet,
		})
		return nil
	})
	if err != nil {
		log.Fatal("Error while reading seen records: ", err)
	}
	seenTable.Render()

	fmt.Println()
	color.Bold.Println("Queued notifications")
	notifTable := newTable([]string{"ID", "Recipient", "Via", "Created", "Body"})
	err = notificationRepository.All(func(n domain.Notification) error {
		notifTable.Append([]string{
			n.ID.String()[:8],
			n.Recipient.String(),
			n.Via,
			n.CreatedAt.Format(time.RFC822),
			n.Body,
		})
		return nil
	})
	if err != nil {
		log.Fatal("Error while reading notifications: ", err)
	}
	notifTable.Render()
}

func newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
