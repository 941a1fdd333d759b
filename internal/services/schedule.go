package services

import (
	"context"

	"github.com/facebookgo/clock"
	"github.com/robfig/cron/v3"

	"github.com/mcampos/library-api/internal/logger"
)

type ScheduleConfig struct {
	// CronSpec is the tick cadence; defaults to once daily at midnight.
	CronSpec string
	// GraceDays is the number of days after the loan date before a
	// not-returned loan counts as late.
	GraceDays int
	// Message is the notice body sent to every late customer.
	Message string
}

// ScheduleService runs the overdue scan on a fixed cadence. A failing
// tick is logged and dropped; the next cadence simply tries again.
// There is no catch-up for ticks missed while the process was down.
type ScheduleService interface {
	Start() error
	Stop()
	// SendMailToLateLoans is one scan: collect late loans, project each
	// to its customer email (duplicates pass through as-is) and hand
	// the batch to the mail dispatcher.
	SendMailToLateLoans(ctx context.Context) error
}

type scheduleService struct {
	log          *logger.Logger
	loanService  LoanService
	emailService EmailService
	clk          clock.Clock
	cfg          ScheduleConfig
	cron         *cron.Cron
}

func NewScheduleService(baseLog *logger.Logger, loanService LoanService, emailService EmailService, clk clock.Clock, cfg ScheduleConfig) ScheduleService {
	if cfg.CronSpec == "" {
		cfg.CronSpec = "0 0 * * *"
	}
	if cfg.GraceDays <= 0 {
		cfg.GraceDays = 4
	}
	return &scheduleService{
		log:          baseLog.With("service", "ScheduleService"),
		loanService:  loanService,
		emailService: emailService,
		clk:          clk,
		cfg:          cfg,
	}
}

func (ss *scheduleService) Start() error {
	c := cron.New()
	// The scan body is synchronous, so one tick finishes or fails
	// before its job func returns; overlapping daily ticks would need a
	// scan running for 24h.
	_, err := c.AddFunc(ss.cfg.CronSpec, func() {
		if err := ss.SendMailToLateLoans(context.Background()); err != nil {
			ss.log.Error("Late loan scan failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	ss.cron = c
	c.Start()
	ss.log.Info("Late loan scheduler started", "cron", ss.cfg.CronSpec, "grace_days", ss.cfg.GraceDays)
	return nil
}

func (ss *scheduleService) Stop() {
	if ss.cron != nil {
		ss.cron.Stop()
	}
}

func (ss *scheduleService) SendMailToLateLoans(ctx context.Context) error {
	lateLoans, err := ss.loanService.FindAllLate(ctx, ss.clk.Now(), ss.cfg.GraceDays)
	if err != nil {
		return err
	}

	mailList := make([]string, 0, len(lateLoans))
	for _, loan := range lateLoans {
		mailList = append(mailList, loan.CustomerEmail)
	}

	ss.log.Info("Late loan scan complete", "late_count", len(lateLoans))
	return ss.emailService.SendMails(ctx, ss.cfg.Message, mailList)
}
