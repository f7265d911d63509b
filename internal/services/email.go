package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/guestdesk/crm-backend/internal/models"
	"github.com/guestdesk/crm-backend/pkg/logger"
	"gorm.io/gorm"
)

type EmailService struct {
	db *gorm.DB
}

type EmailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

func NewEmailService(db *gorm.DB) *EmailService {
	return &EmailService{db: db}
}

func (s *EmailService) GetConfig() *EmailConfig {
	config := &EmailConfig{}

	var configs []models.SystemConfig
	s.db.Where("`group` = ?", "email").Find(&configs)

	for _, c := range configs {
		switch c.Key {
		case "email_enabled":
			config.Enabled = c.Value == "true"
		case "email_host":
			config.Host = c.Value
		case "email_port":
			if port, err := strconv.Atoi(c.Value); err == nil {
				config.Port = port
			}
		case "email_username":
			config.Username = c.Value
		case "email_password":
			config.Password = c.Value
		case "email_from":
			config.From = c.Value
		case "email_use_tls":
			config.UseTLS = c.Value == "true"
		}
	}

	if config.Port == 0 {
		config.Port = 587
	}

	return config
}

// ProcessEmailTask delivers the invitation referenced by the task. The row
// is re-read so only still-pending invitations go out.
func (s *EmailService) ProcessEmailTask(ctx context.Context, task *EmailTask) error {
	var invitation models.Invitation
	if err := s.db.Preload("Organization").First(&invitation, "id = ?", task.InvitationID).Error; err != nil {
		return err
	}
	if invitation.Status != models.InvitationPending {
		logger.Infof("[Email] Invitation %s no longer pending, skipping delivery", invitation.ID)
		return nil
	}
	return s.SendInvitation(&invitation)
}

// SendInvitation emails a join link to the invited address.
func (s *EmailService) SendInvitation(invitation *models.Invitation) error {
	config := s.GetConfig()
	if !config.Enabled || config.Host == "" {
		logger.Infof("[Email] Delivery disabled, invitation %s not sent", invitation.ID)
		return nil
	}

	orgName := "GuestDesk"
	if invitation.Organization != nil {
		orgName = invitation.Organization.Name
	}

	subject := fmt.Sprintf("You have been invited to join %s on GuestDesk", orgName)
	body := s.buildInvitationBody(invitation, orgName)

	return s.sendEmail(config, []string{invitation.Email}, subject, body)
}

func (s *EmailService) buildInvitationBody(invitation *models.Invitation, orgName string) string {
	baseURL := "http://localhost:8080"
	var cfg models.SystemConfig
	if err := s.db.Where("`key` = ?", "invitation_base_url").First(&cfg).Error; err == nil && cfg.Value != "" {
		baseURL = cfg.Value
	}

	var sb strings.Builder
	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString(fmt.Sprintf("<h2>Invitation to %s</h2>", orgName))
	sb.WriteString(fmt.Sprintf("<p>You have been invited to join <b>%s</b> as <b>%s</b>.</p>", orgName, invitation.Role))
	sb.WriteString("<p>Sign up or log in with this email address and the invitation is applied automatically.</p>")
	sb.WriteString(fmt.Sprintf("<p><a href=\"%s/signup?email=%s\">Accept invitation</a></p>", baseURL, invitation.Email))
	sb.WriteString("<hr><p style=\"color: #888; font-size: 12px;\">Powered by GuestDesk</p>")
	sb.WriteString("</body></html>")
	return sb.String()
}

func (s *EmailService) sendEmail(config *EmailConfig, to []string, subject, body string) error {
	from := config.From
	if from == "" {
		from = config.Username
	}

	headers := make(map[string]string)
	headers["From"] = from
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	var err error
	if config.UseTLS {
		err = s.sendEmailTLS(config, addr, auth, from, to, message.String())
	} else {
		err = smtp.SendMail(addr, auth, from, to, []byte(message.String()))
	}

	if err != nil {
		logger.Infof("[Email] Failed to send email: %v", err)
		return err
	}

	logger.Infof("[Email] Sent invitation to %v", to)
	return nil
}

func (s *EmailService) sendEmailTLS(config *EmailConfig, addr string, auth smtp.Auth, from string, to []string, message string) error {
	tlsConfig := &tls.Config{ServerName: config.Host}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, config.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(message)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}
