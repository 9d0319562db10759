// Package internal hosts the debug inspector: a small HTTP dashboard over
// the live badger store, for poking at seen records and queued memos while
// the bot runs. Never exposed unless DEBUG_PORT is set.
package internal

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"bootbot/domain"
)

//go:embed inspect.html
var templatesFS embed.FS

type InspectRow struct {
	Key    string
	Kind   string
	When   string
	Who    string
	Detail string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

func StartDebugServer(db *badger.DB, port int, mapper RowMapper, statsProvider StatsProvider) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	if mapper == nil {
		mapper = DefaultMapper
	}

	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "seen:"
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", port), mux)
	}()
}

// DefaultMapper renders the two key families the bot writes.
// seen:<identity>            -> JSON SeenRecord value
// notif:<recipient>:<ts>:<id> -> JSON Notification value
func DefaultMapper(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:    key,
		Kind:   "RAW",
		When:   "--:--:--",
		Who:    "--------",
		Detail: "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	switch {
	case strings.HasPrefix(key, "seen:"):
		var rec domain.SeenRecord
		if err := json.Unmarshal(val, &rec); err != nil {
			return row
		}
		row.Kind = "SEEN"
		row.When = rec.At.Format("15:04:05")
		row.Who = rec.Nick
		row.Detail = rec.Snippet
	case strings.HasPrefix(key, "notif:"):
		parts := strings.Split(key, ":")
		var n domain.Notification
		if err := json.Unmarshal(val, &n); err != nil || len(parts) < 4 {
			return row
		}
		row.Kind = "MEMO"
		if tsNano, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
			row.When = time.Unix(0, tsNano).Format("15:04:05")
		}
		row.Who = string(n.Recipient)
		row.Detail = fmt.Sprintf("from %s: %s", n.Via, n.Body)
	}
	return row
}
