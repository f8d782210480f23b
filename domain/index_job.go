package domain

// IndexJob asks the search index either to add a message or to forget a whole conversation.
// Exactly one field is set.
type IndexJob struct {
	Message *Message
	Clear   *Parent
}
