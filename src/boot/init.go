package boot

import (
	"log"

	"etix/src/common"
	"etix/src/config"
	"etix/src/db"
	"etix/src/lib"
	"etix/src/models"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.TicketType{},
		&models.Ticket{},
		&models.Purchase{},
		&models.PurchaseItem{},
		&models.Payment{},
		&models.CreditTransaction{},
		&models.SweepRun{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitBroker() {
	go lib.KafkaCreateTopics(lib.TOPIC_TICKETS_REFUNDED, lib.TOPIC_TICKETS_CHECKED_IN)
}

// InitScheduler starts the background scheduler and registers the daily
// refund sweep.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	sweeper := &common.RefundSweeper{ThresholdDays: config.RefundSweepThresholdDays()}
	jobID, err := lib.ScheduleDaily(sweeper, 3, 0)
	if err != nil {
		log.Printf("Error scheduling job: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s %s\n", sweeper.Name(), *jobID)
	sched.Start()
}
