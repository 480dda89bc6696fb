package notify

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/langchou/leasemeter/internal/models"
)

// Sender 发送邮件的最小接口
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer 超额提醒邮件
type Mailer struct {
	sender Sender
	from   string
	to     string
	logger *zap.Logger
}

// NewMailer 创建邮件发送器，host 或收件人为空时返回禁用的 Mailer
func NewMailer(host string, port int, user, password, to string, logger *zap.Logger) *Mailer {
	m := &Mailer{from: user, to: to, logger: logger}
	if host != "" && to != "" {
		m.sender = gomail.NewDialer(host, port, user, password)
	}
	if m.from == "" {
		m.from = "leasemeter@localhost"
	}
	return m
}

// NewMailerWithSender 使用自定义发送方（测试用）
func NewMailerWithSender(sender Sender, from, to string, logger *zap.Logger) *Mailer {
	return &Mailer{sender: sender, from: from, to: to, logger: logger}
}

// Enabled 是否已配置
func (m *Mailer) Enabled() bool {
	return m != nil && m.sender != nil
}

// TierAlert 提醒邮件内容
type TierAlert struct {
	VehicleID       string
	From            models.AlertTier
	To              models.AlertTier
	TotalMiles      int
	AllowanceToDate float64
	BalancePercent  float64
}

// SendTierAlert 发送等级变化提醒
func (m *Mailer) SendTierAlert(alert TierAlert) error {
	if !m.Enabled() {
		return nil
	}

	msg := m.buildTierAlert(alert)
	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send tier alert: %w", err)
	}

	m.logger.Info("Sent tier alert mail",
		zap.String("vehicle_id", alert.VehicleID),
		zap.String("tier", string(alert.To)))
	return nil
}

func (m *Mailer) buildTierAlert(alert TierAlert) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", fmt.Sprintf("[leasemeter] %s is now %s", alert.VehicleID, alert.To))

	var b strings.Builder
	fmt.Fprintf(&b, "Vehicle: %s\n", alert.VehicleID)
	fmt.Fprintf(&b, "Alert tier: %s -> %s\n", alert.From, alert.To)
	fmt.Fprintf(&b, "Miles driven: %d\n", alert.TotalMiles)
	fmt.Fprintf(&b, "Allowance to date: %.0f\n", alert.AllowanceToDate)
	fmt.Fprintf(&b, "Over allowance by: %.1f%%\n", alert.BalancePercent*100)
	msg.SetBody("text/plain", b.String())
	return msg
}
