package email

import "context"

type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	HTMLBody  string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}
