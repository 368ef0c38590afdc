// Package mail 寄送系統信件（重設密碼連結等）
package mail

import (
	"context"
	"fmt"
	netmail "net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"storefront/internal/worker"

	"github.com/rs/zerolog"
)

// Message 純文字信件
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender 寄信介面，寄送失敗回傳錯誤
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender 透過 SMTP 伺服器寄信
type SMTPSender struct {
	cfg      SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now      func() time.Time
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, sendMail: smtp.SendMail, now: time.Now}
}

var headerSanitizer = strings.NewReplacer("\r", "", "\n", "")

// Build 組出 RFC 5322 格式的信件內容
func (s *SMTPSender) Build(msg Message) ([]byte, error) {
	to, err := netmail.ParseAddress(msg.To)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	from, err := netmail.ParseAddress(s.cfg.From)
	if err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}

	var b strings.Builder
	b.WriteString("From: " + from.String() + "\r\n")
	b.WriteString("To: " + to.String() + "\r\n")
	b.WriteString("Subject: " + headerSanitizer.Replace(msg.Subject) + "\r\n")
	b.WriteString("Date: " + s.now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String()), nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := s.Build(msg)
	if err != nil {
		return err
	}
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	to, _ := netmail.ParseAddress(msg.To)
	from, _ := netmail.ParseAddress(s.cfg.From)
	addr := s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port)
	if err := s.sendMail(addr, auth, from.Address, []string{to.Address}, raw); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender 不實際寄信，只把信件寫進 log（開發環境用）
type LogSender struct {
	Logger zerolog.Logger
}

func (s LogSender) Send(_ context.Context, msg Message) error {
	s.Logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("email")
	return nil
}

// Dispatcher 在 worker pool 上執行寄信，限制同時連線的 SMTP session 數量；
// 呼叫端等待結果，寄送失敗會回傳錯誤
type Dispatcher struct {
	pool   worker.Pool
	sender Sender
}

func NewDispatcher(pool worker.Pool, sender Sender) *Dispatcher {
	return &Dispatcher{pool: pool, sender: sender}
}

func (d *Dispatcher) Send(ctx context.Context, msg Message) error {
	done := make(chan error, 1)
	if err := d.pool.SubmitContext(ctx, func() {
		done <- d.sender.Send(ctx, msg)
	}); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
