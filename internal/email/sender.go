package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// SendFunc has the shape of smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// FailureThreshold consecutive transport failures open the breaker for OpenTimeout.
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

type Option func(*SMTPSender)

func WithSendFunc(fn SendFunc) Option {
	return func(s *SMTPSender) {
		s.send = fn
	}
}

// SMTPSender delivers notifications inline through an SMTP relay, behind a circuit breaker.
type SMTPSender struct {
	addr    string
	from    string
	auth    smtp.Auth
	send    SendFunc
	breaker *gobreaker.CircuitBreaker[bool]
}

func NewSMTPSender(cfg Config, opts ...Option) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("host is empty")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("from is empty")
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	s := &SMTPSender{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from: cfg.From,
		send: smtp.SendMail,
	}
	if cfg.Username != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	for _, opt := range opts {
		opt(s)
	}

	threshold := cfg.FailureThreshold
	s.breaker = gobreaker.NewCircuitBreaker[bool](gobreaker.Settings{
		Name:    "smtp",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				"method", "SMTPSender.breaker",
				"name", name,
				"from", from.String(),
				"to", to.String())
		},
	})

	return s, nil
}

// Send returns false with a nil error when the relay answered with a permanent 5xx rejection.
func (s *SMTPSender) Send(ctx context.Context, n domain.OutboundNotification) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if n.To == "" {
		return false, fmt.Errorf("recipient is empty")
	}

	msg := buildMessage(s.from, n)

	accepted, err := s.breaker.Execute(func() (bool, error) {
		err := s.send(s.addr, s.auth, s.from, []string{n.To}, msg)
		if err == nil {
			return true, nil
		}

		var protoErr *textproto.Error
		if errors.As(err, &protoErr) && protoErr.Code >= 500 {
			slog.Warn("mail server rejected message",
				"method", "SMTPSender.Send",
				"message_id", n.MessageID,
				"code", protoErr.Code,
				"msg", protoErr.Msg)
			return false, nil
		}

		return false, err
	})
	if err != nil {
		return false, fmt.Errorf("breaker.Execute: %w", err)
	}

	return accepted, nil
}

func buildMessage(from string, n domain.OutboundNotification) []byte {
	var b strings.Builder

	header := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}

	header("From", from)
	header("To", n.To)
	header("Subject", n.Subject)
	header("Message-ID", fmt.Sprintf("<%s@orderflow>", n.MessageID))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="utf-8"`)
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(n.Body, "\n", "\r\n"))

	return []byte(b.String())
}
