// Package mail wraps the SMTP collaborator. An unconfigured sender is
// valid and silently drops everything.
package mail

import (
	"gopkg.in/gomail.v2"
)

type Sender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSender(host string, port int, username, password, from string) *Sender {
	return &Sender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *Sender) Enabled() bool {
	return s != nil && s.host != "" && s.from != ""
}

// Send delivers one HTML message to all recipients in a single mail.
// No-ops without error when unconfigured or when there is nobody to send to.
func (s *Sender) Send(to []string, subject, html string) error {
	if !s.Enabled() || len(to) == 0 {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	return d.DialAndSend(m)
}
