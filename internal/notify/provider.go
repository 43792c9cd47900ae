package notify

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/carepulse/intake-platform/internal/config"
	"github.com/carepulse/intake-platform/pkg/logging"
)

// SMSSenderFromConfig picks the SMS provider. "auto" uses Twilio when
// credentials are present and falls back to the stub otherwise.
func SMSSenderFromConfig(cfg *config.Config, logger *logging.Logger) (SMSSender, error) {
	provider := cfg.SMSProvider
	if provider == "auto" {
		if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
			provider = "twilio"
		} else {
			provider = "stub"
		}
	}

	switch provider {
	case "twilio":
		return NewTwilioSender(TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			From:       cfg.TwilioFromNumber,
			Logger:     logger,
		})
	case "stub":
		return NewStubSMSSender(logger), nil
	default:
		return nil, fmt.Errorf("notify: unknown SMS provider %q", provider)
	}
}

// EmailSenderFromConfig picks the email provider: SendGrid when an API key is
// set, SES when a from address is set, otherwise nil (email disabled).
func EmailSenderFromConfig(cfg *config.Config, sesClient *sesv2.Client, logger *logging.Logger) EmailSender {
	if cfg.SendGridAPIKey != "" {
		return NewSendGridSender(SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	}
	if cfg.SESFromEmail != "" && sesClient != nil {
		return NewSESSender(sesClient, SESConfig{FromEmail: cfg.SESFromEmail, FromName: cfg.ClinicName}, logger)
	}
	return nil
}
