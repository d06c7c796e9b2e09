package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/seguroscl/cotizador-api/internal/application/usecase"
	"github.com/seguroscl/cotizador-api/pkg/config"
	"github.com/seguroscl/cotizador-api/pkg/logger"
)

var _ usecase.Mailer = (*SMTPMailer)(nil)

// SMTPMailer envío de correos vía SMTP autenticado.
type SMTPMailer struct {
	dialer *gomail.Dialer
	de     string
	log    *logger.Logger
}

// NewSMTPMailer construye el mailer con la configuración SMTP de la app.
func NewSMTPMailer(cfg config.SMTPConfig, log *logger.Logger) *SMTPMailer {
	de := cfg.User
	if cfg.FromName != "" {
		de = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.User)
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		de:     de,
		log:    log,
	}
}

// Enviar despacha un correo HTML. Respeta la cancelación del contexto antes
// de abrir la conexión; el envío en sí es una operación corta y bloqueante.
func (m *SMTPMailer) Enviar(ctx context.Context, para, asunto, cuerpoHTML string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.de)
	msg.SetHeader("To", para)
	msg.SetHeader("Subject", asunto)
	msg.SetBody("text/html", cuerpoHTML)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", para, err)
	}
	m.log.Debug().Str("para", para).Str("asunto", asunto).Msg("correo enviado")
	return nil
}
