package lib

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

var scheduler gocron.Scheduler

func NewScheduler(s gocron.Scheduler) {
	scheduler = s
}

func GetScheduler() (gocron.Scheduler, error) {
	if scheduler != nil {
		return scheduler, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Error initializing Scheduler: %s\n", err.Error())
		return nil, err
	}
	scheduler = sched
	numJobs := len(sched.Jobs())
	log.Printf("Jobs in queue: %d\n", numJobs)
	return sched, nil
}

// RecurringJob decouples the sweep logic from gocron so the business
// function can be exercised in tests without a real clock.
type RecurringJob interface {
	Name() string
	Run() error
}

// ScheduleDaily registers job to run every day at the given hour/minute.
func ScheduleDaily(job RecurringJob, hour, minute uint) (*string, error) {
	sched, err := GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return nil, err
	}
	j, err := sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
		gocron.NewTask(func() {
			if err := job.Run(); err != nil {
				log.Printf("Error running job [%s]: %s\n", job.Name(), err.Error())
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	id := j.ID().String()
	log.Printf("Job: %s %s\n", id, job.Name())
	return &id, nil
}

// ScheduleEvery registers job on a fixed interval. Used by tests and
// short-interval deployments.
func ScheduleEvery(job RecurringJob, interval time.Duration) (*string, error) {
	sched, err := GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return nil, err
	}
	j, err := sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := job.Run(); err != nil {
				log.Printf("Error running job [%s]: %s\n", job.Name(), err.Error())
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	id := j.ID().String()
	return &id, nil
}
