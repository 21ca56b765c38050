package infra

import (
	"errors"
	"net/smtp"
	"testing"

	"finesse/internal/config"
	"finesse/internal/dto"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailer_SendPrecoAlterado(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "smtp.local", SMTPPort: 2525, SMTPUser: "noreply@finesse.local", PrecoNotifyEmail: "gestao@finesse.local"})

	var sent *email.Email
	var addr string
	m.send = func(e *email.Email, a string, _ smtp.Auth) error { sent, addr = e, a; return nil }

	anterior := decimal.RequireFromString("80")
	err := m.SendPrecoAlterado(dto.PrecoAlteradoEvent{
		ServicoID: 7, Nome: "Limpeza de pele", PrecoAnterior: &anterior,
		PrecoNovo: decimal.RequireFromString("95.5"), VigenciaInicio: "2026-03-01",
	})
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, "smtp.local:2525", addr)
	assert.Equal(t, []string{"gestao@finesse.local"}, sent.To)
	assert.Contains(t, sent.Subject, "Limpeza de pele")
	assert.Contains(t, string(sent.Text), "R$ 80.00")
	assert.Contains(t, string(sent.Text), "R$ 95.50")
}

func TestMailer_NoRecipientIsNoop(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "smtp.local"})
	m.send = func(*email.Email, string, smtp.Auth) error { return errors.New("should not send") }
	assert.NoError(t, m.SendPrecoAlterado(dto.PrecoAlteradoEvent{Nome: "x"}))
}
