// Package mail delivers account-request notifications over SMTP. No
// mail library is involved: messages are plain text and net/smtp covers
// everything this system sends.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/tmeduca/investigacion-portal/internal/config"
	"github.com/tmeduca/investigacion-portal/internal/logger"
	"github.com/tmeduca/investigacion-portal/internal/model"
)

// SMTPNotifier sends notification mail through a configured SMTP relay.
type SMTPNotifier struct {
	cfg     config.SMTP
	appName string
	logger  *logger.Logger
}

// NewSMTPNotifier creates a notifier that delivers through cfg.Host.
func NewSMTPNotifier(cfg config.SMTP, appName string, logger *logger.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, appName: appName, logger: logger}
}

// RequestSubmitted mails the administrator about a new request and the
// applicant a confirmation.
func (n *SMTPNotifier) RequestSubmitted(ctx context.Context, request model.AccountRequest) error {
	subject := fmt.Sprintf("Nueva Solicitud de Cuenta - %s", n.appName)
	body := fmt.Sprintf(
		"Nueva solicitud de cuenta recibida:\n\n"+
			"ID: %s\nNombre: %s\nRUT: %s\nEmail: %s\nRol: %s\nCarrera: %s\n\n"+
			"Comentarios:\n%s\n\nFecha de solicitud: %s\n",
		request.RequestID, request.FullName, request.RUT, request.Email,
		request.Role, request.Career, request.Comments,
		request.RequestDate.Format("02/01/2006 15:04"))
	if err := n.send(n.cfg.AdminEmail, subject, body); err != nil {
		return err
	}

	subject = fmt.Sprintf("Solicitud de Cuenta Recibida - %s", n.appName)
	body = fmt.Sprintf(
		"Estimado/a %s,\n\n"+
			"Tu solicitud de cuenta para el %s ha sido recibida exitosamente.\n\n"+
			"ID de solicitud: %s\nEmail: %s\nRol solicitado: %s\n\n"+
			"Tu solicitud será revisada por el equipo administrativo en un plazo de 1-3 días hábiles.\n",
		request.FullName, n.appName, request.RequestID, request.Email, request.Role)
	return n.send(request.Email, subject, body)
}

// RequestApproved mails the applicant their initial credentials.
func (n *SMTPNotifier) RequestApproved(ctx context.Context, request model.AccountRequest, initialPassword string) error {
	subject := fmt.Sprintf("Solicitud Aprobada - %s", n.appName)
	body := fmt.Sprintf(
		"Estimado/a %s,\n\n"+
			"Tu solicitud %s ha sido aprobada.\n\n"+
			"Usuario: %s\nContraseña inicial: %s\n\n"+
			"Por seguridad deberás cambiar la contraseña en tu primer ingreso.\n",
		request.FullName, request.RequestID, request.Email, initialPassword)
	return n.send(request.Email, subject, body)
}

// RequestRejected mails the applicant the rejection and any admin
// comments.
func (n *SMTPNotifier) RequestRejected(ctx context.Context, request model.AccountRequest) error {
	comments := ""
	if request.AdminComments != nil && *request.AdminComments != "" {
		comments = fmt.Sprintf("\nComentarios del administrador:\n%s\n", *request.AdminComments)
	}
	subject := fmt.Sprintf("Solicitud Rechazada - %s", n.appName)
	body := fmt.Sprintf(
		"Estimado/a %s,\n\n"+
			"Lamentamos informarte que tu solicitud %s ha sido rechazada.\n%s\n"+
			"Si crees que se trata de un error, contacta a %s.\n",
		request.FullName, request.RequestID, comments, n.cfg.AdminEmail)
	return n.send(request.Email, subject, body)
}

func (n *SMTPNotifier) send(to, subject, body string) error {
	msg := buildMessage(n.appName, n.cfg.SystemEmail, to, subject, body)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	addr := n.cfg.Host + ":" + n.cfg.Port
	if err := smtp.SendMail(addr, auth, n.cfg.SystemEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	n.logger.Info("notification sent", "to", to, "subject", subject)
	return nil
}

func buildMessage(appName, from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", appName, from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// LogNotifier is the fallback when no SMTP relay is configured: every
// notification is written to the log instead of the wire.
type LogNotifier struct {
	logger *logger.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(logger *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) RequestSubmitted(ctx context.Context, request model.AccountRequest) error {
	n.logger.Info("mail disabled, request submitted", "id", request.RequestID, "email", request.Email)
	return nil
}

func (n *LogNotifier) RequestApproved(ctx context.Context, request model.AccountRequest, initialPassword string) error {
	n.logger.Info("mail disabled, request approved", "id", request.RequestID, "email", request.Email)
	return nil
}

func (n *LogNotifier) RequestRejected(ctx context.Context, request model.AccountRequest) error {
	n.logger.Info("mail disabled, request rejected", "id", request.RequestID, "email", request.Email)
	return nil
}
