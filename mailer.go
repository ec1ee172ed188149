package board

import (
	"context"
	"fmt"
)

// VerificationMail composes the verification email for a freshly issued code.
// The link hits the confirmation route with the code as a query parameter.
func VerificationMail(baseURL, code string) (subject, body string) {
	subject = "Verify your email address"
	body = fmt.Sprintf(
		"Welcome to the board!\n\nConfirm your email by following this link:\n%s/users/email-verify?verificationCode=%s\n\nThe code expires in 30 minutes.",
		baseURL,
		code,
	)
	return subject, body
}

// DevMailer prints outgoing mail to stdout instead of delivering it. It is
// the default in development and tests.
type DevMailer struct {
	logger Logger
}

// NewDevMailer builds a print-only mailer.
func NewDevMailer(logger Logger) *DevMailer {
	if logger == nil {
		logger = defLogger{}
	}
	return &DevMailer{logger: logger}
}

// Send implements Mailer.
func (m *DevMailer) Send(ctx context.Context, recipient, subject, body string) error {
	fmt.Println("====== SENDING EMAIL NOTIFICATION =======")
	fmt.Printf("to: %s\n", recipient)
	fmt.Printf("subject: %s\n", subject)
	fmt.Println(body)
	fmt.Println("=========================================")
	return nil
}
