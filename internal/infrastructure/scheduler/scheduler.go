package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler runs backup jobs on cron specs with a seconds field. A job that
// is still running when its next tick arrives is skipped for that tick.
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	onError func(error)
}

func New(onError func(error)) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		ctx:     context.Background(),
		onError: onError,
	}
}

// Validate reports whether spec is a schedule the scheduler accepts.
func Validate(spec string) error {
	_, err := parser.Parse(spec)
	return err
}

func (s *Scheduler) AddJob(spec string, job func(context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := job(s.ctx); err != nil && s.onError != nil {
			s.onError(err)
		}
	})
	return err
}

// Start begins running jobs; ctx is handed to every job invocation.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
