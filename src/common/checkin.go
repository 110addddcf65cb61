package common

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"etix/src/lib"
	"etix/src/models"
	"etix/src/types"
	"etix/src/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CheckInResult is what the gate client renders after a scan.
type CheckInResult struct {
	Status types.CheckInStatus `json:"status"`
	Ticket *models.Ticket      `json:"ticket"`
}

// CheckInStats is the live attendance summary for one event. Percentage is
// checked-in over valid tickets, 0 when no valid tickets exist.
type CheckInStats struct {
	EventID    uint    `json:"event_id"`
	Total      int64   `json:"total"`
	Valid      int64   `json:"valid"`
	CheckedIn  int64   `json:"checked_in"`
	Percentage float64 `json:"percentage"`
}

// FindTicketByQr resolves a gate scan to a ticket and verifies it without
// changing any state. The scan either carries an encrypted QR code or a
// typed-in ticket reference with the manual sentinel hash.
func FindTicketByQr(body *types.CheckInScanRequestBody) (*CheckInResult, error) {
	ticketID := body.TicketID
	hash := body.Hash
	if body.Code != "" {
		payload, err := utils.DecodeTicketQr(body.Code)
		if err != nil {
			log.Printf("gate scan: undecodable code: %s", err.Error())
			return nil, ErrTicketNotFound
		}
		ticketID = payload.TicketID
		hash = payload.Hash
	}

	var ticket models.Ticket
	err := dbconn().
		Where("id = ?", ticketID).
		Preload("Event").
		Preload("TicketType").
		First(&ticket).
		Error
	if err != nil {
		if notFound(err) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	if ticket.Status != types.TICKET_PURCHASED {
		return nil, ErrTicketNotFound
	}

	if hash != types.ManualEntryHash {
		expected := utils.TicketSignature(ticket.ID, ticket.EventID, ticket.UserID)
		if hash != expected {
			return nil, &InvalidSignatureError{TicketID: ticket.ID}
		}
	}

	if ticket.CheckedIn {
		return nil, &AlreadyCheckedInError{Ticket: &ticket}
	}

	status := types.CHECKIN_VALID_TODAY
	if ticket.Event.DateTime == nil || !sameDay(*ticket.Event.DateTime, time.Now()) {
		status = types.CHECKIN_WRONG_DAY
	}
	return &CheckInResult{Status: status, Ticket: &ticket}, nil
}

// CheckInTicket flips a ticket to checked-in exactly once. The row lock makes
// two gates scanning the same ticket serialize; the loser gets
// AlreadyCheckedInError with the winner's timestamp.
func CheckInTicket(ticketID uint, actorID uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := dbconn().Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", ticketID).
			First(&ticket).
			Error; err != nil {
			if notFound(err) {
				return ErrTicketNotFound
			}
			return err
		}
		if ticket.Status != types.TICKET_PURCHASED {
			return ErrTicketNotFound
		}
		if ticket.CheckedIn {
			return &AlreadyCheckedInError{Ticket: &ticket}
		}
		now := time.Now()
		if err := tx.
			Model(&ticket).
			Updates(map[string]any{
				"checked_in":    true,
				"checked_in_at": now,
				"checked_in_by": actorID,
			}).
			Error; err != nil {
			return err
		}
		ticket.CheckedIn = true
		ticket.CheckedInAt = &now
		ticket.CheckedInBy = &actorID
		return nil
	})
	if err != nil {
		return nil, err
	}

	go lib.KafkaProduceMessage("gate", lib.TOPIC_TICKETS_CHECKED_IN, map[string]any{
		"ticket_id": ticket.ID,
		"event_id":  ticket.EventID,
		"by":        actorID,
	})
	return &ticket, nil
}

const checkInStatsTTL = 30 * time.Second

// GetEventCheckInStats computes the attendance summary for an event, cached
// briefly in redis since gate dashboards poll it.
func GetEventCheckInStats(ctx context.Context, eventID uint) (*CheckInStats, error) {
	cacheKey := lib.EventStatsKey(eventID)
	rdb := lib.GetRedisClient()
	if cached, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
		var stats CheckInStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	}

	var event models.Event
	if err := dbconn().Where("id = ?", eventID).First(&event).Error; err != nil {
		if notFound(err) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	stats := CheckInStats{EventID: eventID}
	base := dbconn().Model(&models.Ticket{}).Where("event_id = ?", eventID)
	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", types.TICKET_PURCHASED).
		Count(&stats.Valid).
		Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", types.TICKET_PURCHASED).
		Where("checked_in = ?", true).
		Count(&stats.CheckedIn).
		Error; err != nil {
		return nil, err
	}
	if stats.Valid > 0 {
		stats.Percentage = float64(stats.CheckedIn) / float64(stats.Valid) * 100
	}

	if raw, err := json.Marshal(stats); err == nil {
		if err := rdb.Set(ctx, cacheKey, raw, checkInStatsTTL).Err(); err != nil {
			log.Printf("failed to cache stats for event [%d]: %s", eventID, err.Error())
		}
	}
	return &stats, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
