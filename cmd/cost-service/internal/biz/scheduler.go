package biz

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job 周期任务
type Job struct {
	Name     string
	Interval time.Duration
	// Offset 首次触发前的延迟，用于任务之间错峰（比如建议扫描滞后于采集）
	Offset time.Duration
	Run    func(ctx context.Context, now time.Time)
}

// Scheduler 周期任务调度器（定时任务）
//
// 每个任务一个 ticker 循环，Idle → Running → Idle：任务体在循环内同步
// 执行，同一任务不会自我并发。Stop 取消上下文并等待在途任务退出。
type Scheduler struct {
	jobs   []Job
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *zap.Logger
}

// NewScheduler 创建调度器
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{log: logger}
}

// Register 注册周期任务，必须在 Start 之前调用
func (s *Scheduler) Register(job Job) {
	s.jobs = append(s.jobs, job)
}

// Start 启动全部任务
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	for _, job := range s.jobs {
		s.wg.Add(1)
		go func(job Job) {
			defer s.wg.Done()
			s.runJob(ctx, job)
		}(job)
	}
}

// Stop 停止调度器并等待在途任务结束
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.log.Info("scheduler stopped")
}

// runJob 单个任务的 ticker 循环
func (s *Scheduler) runJob(ctx context.Context, job Job) {
	if job.Offset > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(job.Offset):
		}
	}

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.log.Info("job scheduled",
		zap.String("job", job.Name),
		zap.Duration("interval", job.Interval),
		zap.Duration("offset", job.Offset),
	)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("job stopped", zap.String("job", job.Name))
			return

		case now := <-ticker.C:
			job.Run(ctx, now)
		}
	}
}
