package common

import (
	"context"
	"log"
	"time"

	"etix/src/lib"
	"etix/src/lib/mailer"
	"etix/src/models"
	"etix/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SweepResult is one ticket the sweeper refunded.
type SweepResult struct {
	TicketID  uint    `json:"ticket_id"`
	EventName string  `json:"event_name"`
	Price     float32 `json:"price"`
}

// SweepStaleRefunds finds tickets that were cancelled more than thresholdDays
// ago and are still waiting in requested, and pushes each one through the
// refund pipeline. Every ticket runs in its own transaction: one failing
// refund rolls back only that ticket and never blocks the rest of the batch.
func SweepStaleRefunds(ctx context.Context, thresholdDays int) ([]SweepResult, error) {
	cutoff := time.Now().AddDate(0, 0, -thresholdDays)
	var stale []models.Ticket
	err := dbconn().
		Where("status = ?", types.TICKET_CANCELLED).
		Where("refund_status = ? OR refund_status IS NULL", types.REFUND_REQUESTED).
		Where("cancelled_at < ?", cutoff).
		Preload("Event").
		Preload("User").
		Find(&stale).
		Error
	if err != nil {
		return nil, err
	}
	log.Printf("refund sweep: %d stale tickets older than %s", len(stale), cutoff.Format(time.RFC3339))

	results := make([]SweepResult, 0, len(stale))
	failed := 0
	for _, ticket := range stale {
		err := dbconn().Transaction(func(tx *gorm.DB) error {
			var fresh models.Ticket
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", ticket.ID).
				First(&fresh).
				Error; err != nil {
				return err
			}
			return executeRefund(ctx, tx, &fresh)
		})
		if err != nil {
			failed++
			log.Printf("refund sweep: ticket [%d] failed: %s", ticket.ID, err.Error())
			continue
		}
		results = append(results, SweepResult{
			TicketID:  ticket.ID,
			EventName: ticket.Event.Name,
			Price:     ticket.Price,
		})
		go mailer.SendRefundCompletedEmail(ticket.User.Email, ticket.Event.Name, float64(ticket.Price))
		go lib.KafkaProduceMessage("sweeper", lib.TOPIC_TICKETS_REFUNDED, map[string]any{
			"ticket_id": ticket.ID,
			"event_id":  ticket.EventID,
			"user_id":   ticket.UserID,
			"amount":    ticket.Price,
		})
	}

	recordSweepRun(results, failed)
	return results, nil
}

// recordSweepRun keeps an audit row per sweep. Failure to write it only
// loses the audit entry, never the refunds themselves.
func recordSweepRun(results []SweepResult, failed int) {
	refunded := make([]any, 0, len(results))
	for _, r := range results {
		refunded = append(refunded, map[string]any{
			"ticket_id":  r.TicketID,
			"event_name": r.EventName,
			"price":      r.Price,
		})
	}
	now := time.Now()
	run := models.SweepRun{
		StartedAt:  now,
		FinishedAt: &now,
		Processed:  len(results),
		Failed:     failed,
		Results:    types.JSONB{"refunded": refunded},
	}
	if err := dbconn().Create(&run).Error; err != nil {
		log.Printf("refund sweep: failed to record run: %s", err.Error())
	}
}

// RefundSweeper is the scheduled wrapper around SweepStaleRefunds. It runs
// daily through the scheduler in the lib package.
type RefundSweeper struct {
	ThresholdDays int
}

func (s *RefundSweeper) Name() string { return "refund-sweeper" }

func (s *RefundSweeper) Run() error {
	_, err := SweepStaleRefunds(context.Background(), s.ThresholdDays)
	return err
}
