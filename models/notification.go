package models

// Email is an outgoing transactional message.
type Email struct {
	ToName   string
	ToEmail  string
	Subject  string
	Text     string
	HTML     string
	Category string
}
