package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"filetag-go/internal/service"
)

const dedupeJobTag = "tag-dedupe"

// Scheduler 后台定时任务
type Scheduler struct {
	cron   *gocron.Scheduler
	logger *logrus.Logger
}

// New 按配置创建定时任务，没有任何任务时返回 nil
func New(dedupeCron string, maintenance *service.TagMaintenance, logger *logrus.Logger) (*Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)
	s.SetMaxConcurrentJobs(1, gocron.WaitMode)

	if dedupeCron != "" {
		_, err := s.Cron(dedupeCron).Tag(dedupeJobTag).Do(func() {
			runDedupe(maintenance, logger)
		})
		if err != nil {
			return nil, err
		}
	}

	if len(s.Jobs()) == 0 {
		return nil, nil
	}
	return &Scheduler{cron: s, logger: logger}, nil
}

// runDedupe 执行一次标签去重
func runDedupe(maintenance *service.TagMaintenance, logger *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := maintenance.DedupeTags(ctx)
	if err != nil {
		logger.WithError(err).Error("标签去重任务失败")
		return
	}
	logger.WithFields(logrus.Fields{
		"job":      dedupeJobTag,
		"groups":   result.Groups,
		"removed":  result.Removed,
		"relinked": result.Relinked,
	}).Info("标签去重任务完成")
}

// Start 异步启动
func (s *Scheduler) Start() {
	s.logger.WithField("jobs", len(s.cron.Jobs())).Info("定时任务已启动")
	s.cron.StartAsync()
}

// Stop 停止全部任务
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
