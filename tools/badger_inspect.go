package main

import (
	"chat-relay/domain/chat"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	// idx: entries only point to primary keys, they are skipped
	prefix := flag.String("prefix", "msg:", "Prefix to scan (user:, chat:, msg:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "ID", "Detail"})
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

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if strings.HasPrefix(key, "idx:") {
				continue
			}
			err := item.Value(func(v []byte) error {
				row, err := describe(key, v)
				if err != nil {
					fmt.Printf("Error decoding key %s: %v\n", key, err)
					return nil
				}
				table.Append(row)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func describe(key string, v []byte) ([]string, error) {
	switch {
	case strings.HasPrefix(key, "user:"):
		var identity chat.Identity
		if err := json.Unmarshal(v, &identity); err != nil {
			return nil, err
		}
		return []string{key, "USER", short(string(identity.ID)), identity.Username + " <" + identity.Email + ">"}, nil
	case strings.HasPrefix(key, "chat:"):
		var c chat.Chat
		if err := json.Unmarshal(v, &c); err != nil {
			return nil, err
		}
		last := "-"
		if c.LastMessage != nil {
			last = short(string(*c.LastMessage))
		}
		return []string{key, "CHAT", short(string(c.ID)),
			fmt.Sprintf("%s, %d participants, last %s", c.Name, len(c.Participants), last)}, nil
	case strings.HasPrefix(key, "msg:"):
		var m chat.Message
		if err := json.Unmarshal(v, &m); err != nil {
			return nil, err
		}
		return []string{key, "MESSAGE", short(string(m.ID)),
			fmt.Sprintf("%s %s: %q (+%d attachments)", m.CreatedAt.Format("15:04:05"), short(string(m.Sender)), m.Content, len(m.Attachments))}, nil
	default:
		return []string{key, "RAW", "-", fmt.Sprintf("Size: %d bytes", len(v))}, nil
	}
}

// short keeps the first 8 characters of an id for readability.
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
