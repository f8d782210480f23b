package repositories

import (
	"encoding/json"
	"strings"
	"synaptik/domain"

	"github.com/dgraph-io/badger/v4"
)

// Values are stored as JSON documents, keys are namespaced by a prefix:
//
//	user:{id}              user document
//	username:{lower name}  -> user id
//	email:{lower email}    -> user id
//	room:{id}              room document
//	roomname:{lower name}  -> room id
//	dm:{id}                dm document
//	dmpair:{a}:{b}         -> dm id, a < b
//	dmuser:{user}:{dm}     membership index
//	msg:{kind}:{parent}:{ts}:{id}  message document
//	msgid:{id}             -> message key
//	otp:{email}            verification code, with TTL

func getJSON[T any](txn *badger.Txn, key string) (T, error) {
	var value T
	item, err := txn.Get([]byte(key))
	if err != nil {
		return value, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &value)
	})
	return value, err
}

func setJSON[T any](txn *badger.Txn, key string, value T) error {
	bytes, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), bytes)
}

func getString(txn *badger.Txn, key string) (string, error) {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return "", err
	}
	bytes, err := item.ValueCopy(nil)
	return string(bytes), err
}

func exists(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	switch {
	case err == nil:
		return true, nil
	case err == badger.ErrKeyNotFound:
		return false, nil
	default:
		return false, err
	}
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func decodeMessage(value []byte) (domain.Message, error) {
	var message domain.Message
	err := json.Unmarshal(value, &message)
	return message, err
}
