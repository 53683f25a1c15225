// internal/sms/sms.go
package sms

import "context"

// SMS is one outbound message handed to the transport.
type SMS struct {
	To        string `json:"to"`
	Body      string `json:"body"`
	MediaURL  string `json:"media_url,omitempty"`
	MediaType string `json:"media_type,omitempty"`
}

// Transport is the outbound messaging provider. Send returns the
// provider-assigned message id on success.
type Transport interface {
	Send(ctx context.Context, msg SMS) (sid string, err error)
}
