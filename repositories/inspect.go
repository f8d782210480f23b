package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"synaptik/domain"

	"github.com/dgraph-io/badger/v4"
)

// Record is the readable view of one stored key, used by the debug inspector and cmd/inspect.
type Record struct {
	Key    string
	Kind   string
	At     string
	Detail string
}

// Describe never fails: undecodable values are reported in Detail.
func Describe(key string, val []byte) Record {
	record := Record{Key: key}
	namespace, _, _ := strings.Cut(key, ":")
	switch namespace {
	case "msg":
		var m domain.Message
		if err := json.Unmarshal(val, &m); err != nil {
			return undecodable(record, "MESSAGE", err)
		}
		record.Kind = "MESSAGE"
		record.At = m.CreatedAt.Format("2006-01-02 15:04:05")
		record.Detail = m.Text
		if m.Media != nil {
			record.Detail = fmt.Sprintf("[%s] %s", m.Type, m.Media.OriginalName)
		}
	case "user":
		var u diskUser
		if err := json.Unmarshal(val, &u); err != nil {
			return undecodable(record, "USER", err)
		}
		record.Kind = "USER"
		record.At = u.CreatedAt.Format("2006-01-02 15:04:05")
		record.Detail = fmt.Sprintf("%s <%s> online=%t verified=%t", u.Username, u.Email, u.Online, u.Verified)
	case "room":
		var r domain.Room
		if err := json.Unmarshal(val, &r); err != nil {
			return undecodable(record, "ROOM", err)
		}
		record.Kind = "ROOM"
		record.At = r.CreatedAt.Format("2006-01-02 15:04:05")
		record.Detail = fmt.Sprintf("%s private=%t members=%d", r.Name, r.IsPrivate, len(r.Members))
	case "dm":
		var d domain.DMConversation
		if err := json.Unmarshal(val, &d); err != nil {
			return undecodable(record, "DM", err)
		}
		record.Kind = "DM"
		record.At = d.CreatedAt.Format("2006-01-02 15:04:05")
		record.Detail = fmt.Sprintf("%s <-> %s", d.Participants[0], d.Participants[1])
	case "otp":
		record.Kind = "OTP"
		record.Detail = "verification code"
	default:
		record.Kind = "INDEX"
		record.Detail = string(val)
	}
	return record
}

func undecodable(record Record, kind string, err error) Record {
	record.Kind = kind
	record.Detail = "Error: unmarshal failed: " + err.Error()
	return record
}

// Scan describes every key under prefix, in key order.
func Scan(db *badger.DB, prefix string) ([]Record, error) {
	var records []Record
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if err := item.Value(func(val []byte) error {
				records = append(records, Describe(key, val))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return records, err
}

// Ping fails once the store is closed.
func Ping(db *badger.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return db.View(func(*badger.Txn) error { return nil })
	}
}
