package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Mailer delivers account-confirmation messages. Sign-in stays blocked until
// the recipient follows the link.
type Mailer interface {
	SendConfirmation(to, token string) error
}

type SMTPMailer struct {
	Host   string
	Port   string
	User   string
	Pass   string
	From   string
	AppURL string
}

func NewSMTPMailer(host, port, user, pass, from, appURL string) *SMTPMailer {
	return &SMTPMailer{Host: host, Port: port, User: user, Pass: pass, From: from, AppURL: appURL}
}

func (m *SMTPMailer) SendConfirmation(to, token string) error {
	link := fmt.Sprintf("%s/login?confirm=%s", m.AppURL, token)
	msg := fmt.Sprintf(
		"From: Simplo TI <%s>\r\nTo: %s\r\nSubject: Confirme seu email\r\n\r\n"+
			"Bem-vindo ao Simplo TI!\r\n\r\nConfirme seu email acessando: %s\r\n",
		m.From, to, link,
	)
	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, []byte(msg))
}

// LogMailer is the dev fallback when no SMTP host is configured: the
// confirmation link lands in the server log instead of a mailbox.
type LogMailer struct{ Log zerolog.Logger }

func (m *LogMailer) SendConfirmation(to, token string) error {
	m.Log.Info().Str("to", to).Str("token", token).Msg("confirmation email (log-only delivery)")
	return nil
}
