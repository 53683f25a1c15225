// internal/sms/twilio.go
package sms

import (
	"context"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"

	appErrors "github.com/silversky/partnersms-backend/internal/errors"
)

// TwilioSender sends SMS/MMS through the Twilio REST API.
type TwilioSender struct {
	FromNumber string
	Client     *twilio.RestClient
}

func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSender{
		FromNumber: fromNumber,
		Client:     client,
	}
}

func (t *TwilioSender) Send(ctx context.Context, msg SMS) (string, error) {
	params := &api.CreateMessageParams{}
	params.SetBody(msg.Body)
	params.SetFrom(t.FromNumber)
	params.SetTo(msg.To)
	if msg.MediaURL != "" {
		params.SetMediaUrl([]string{msg.MediaURL})
	}

	resp, err := t.Client.Api.CreateMessage(params)
	if err != nil {
		return "", &appErrors.TransportError{Reason: "twilio create message", Err: err}
	}
	if resp.Sid == nil {
		return "", &appErrors.TransportError{Reason: "twilio returned no message sid"}
	}
	return *resp.Sid, nil
}

var _ Transport = (*TwilioSender)(nil)
