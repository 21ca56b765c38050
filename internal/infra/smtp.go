package infra

import (
	"fmt"
	"net/smtp"
	"strings"

	"finesse/internal/config"
	"finesse/internal/dto"

	"github.com/jordan-wright/email"
)

// Mailer sends price-change notifications over SMTP.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	to       string
	send     func(e *email.Email, addr string, a smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		to:       cfg.PrecoNotifyEmail,
		send:     func(e *email.Email, addr string, a smtp.Auth) error { return e.Send(addr, a) },
	}
}

// SendPrecoAlterado notifies the configured address that a service price changed.
func (m *Mailer) SendPrecoAlterado(ev dto.PrecoAlteradoEvent) error {
	if m.to == "" {
		return nil
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{m.to}
	e.Subject = fmt.Sprintf("Preço alterado: %s", ev.Nome)
	e.Text = []byte(precoAlteradoBody(ev))

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if err := m.send(e, m.addr, auth); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}

func precoAlteradoBody(ev dto.PrecoAlteradoEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Serviço #%d (%s)\n", ev.ServicoID, ev.Nome)
	anterior := "sem preço anterior"
	if ev.PrecoAnterior != nil {
		anterior = "R$ " + ev.PrecoAnterior.StringFixed(2)
	}
	fmt.Fprintf(&b, "Preço anterior: %s\n", anterior)
	fmt.Fprintf(&b, "Novo preço: R$ %s\n", ev.PrecoNovo.StringFixed(2))
	fmt.Fprintf(&b, "Vigente a partir de: %s\n", ev.VigenciaInicio)
	return b.String()
}
