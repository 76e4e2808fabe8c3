package jobs

import (
	"context"
	"sort"

	"github.com/bwmarrin/discordgo"
	"github.com/ethaan/craftbot/pkg/ascii"
	"github.com/ethaan/craftbot/pkg/command"
	"github.com/ethaan/craftbot/pkg/logger"
	"github.com/ethaan/craftbot/pkg/repositories"
	"github.com/go-co-op/gocron/v2"
)

// UsageReportJob flushes the in-memory usage counters to the database once
// a day and posts the running totals to the report channel, if configured.
type UsageReportJob struct {
	session         *discordgo.Session
	dispatcher      *command.Dispatcher
	usageRepo       *repositories.UsageRepository
	reportChannelID string
	scheduler       gocron.Scheduler
}

func NewUsageReportJob(session *discordgo.Session, dispatcher *command.Dispatcher, usageRepo *repositories.UsageRepository, reportChannelID string) *UsageReportJob {
	return &UsageReportJob{
		session:         session,
		dispatcher:      dispatcher,
		usageRepo:       usageRepo,
		reportChannelID: reportChannelID,
	}
}

func (j *UsageReportJob) Name() string {
	return "usage-report"
}

func (j *UsageReportJob) Run(ctx context.Context) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logger.Error("Failed to create scheduler: %v", err)
		return
	}
	j.scheduler = scheduler

	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(func() {
			logger.Worker("usage-report", "Flushing command usage counters")
			j.flushAndReport()
		}),
	)
	if err != nil {
		logger.Error("Failed to schedule job: %v", err)
		return
	}

	scheduler.Start()
	logger.Worker("usage-report", "Scheduler started - will run daily at 00:05")

	<-ctx.Done()

	// Flush once more on shutdown so counters survive restarts.
	j.flush()

	if err := scheduler.Shutdown(); err != nil {
		logger.Error("Error shutting down scheduler: %v", err)
	}
}

func (j *UsageReportJob) flush() {
	for name, uses := range j.dispatcher.TakeUsage() {
		if err := j.usageRepo.Add(name, uses); err != nil {
			logger.Worker("usage-report", "Error persisting usage for %s: %v", name, err)
		}
	}
}

func (j *UsageReportJob) flushAndReport() {
	j.flush()

	if j.reportChannelID == "" {
		return
	}

	rows, err := j.usageRepo.All()
	if err != nil {
		logger.Worker("usage-report", "Error fetching usage rows: %v", err)
		return
	}
	if len(rows) == 0 {
		logger.Worker("usage-report", "No usage recorded yet, skipping report")
		return
	}

	sort.Slice(rows, func(i, k int) bool {
		return rows[i].Uses > rows[k].Uses
	})

	report := "Command usage totals:\n```\n" + ascii.BuildUsageTable(rows) + "```"
	if _, err := j.session.ChannelMessageSend(j.reportChannelID, report); err != nil {
		logger.Worker("usage-report", "Error posting report to channel %s: %v", j.reportChannelID, err)
	}
}
