package common

import (
	"fmt"
	"log"
	"time"

	"etix/src/config"
	"etix/src/inventory"
	"etix/src/lib/mailer"
	"etix/src/models"
	"etix/src/types"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// CreateNewEvent creates an event in draft, or open when publish is set.
func CreateNewEvent(body *types.CreateEventRequestBody, creatorID uint) (*models.Event, error) {
	dateTime, err := time.Parse(config.TIME_PARSE_FORMAT, body.DateTime)
	if err != nil {
		return nil, fmt.Errorf("bad date_time: %w", err)
	}
	deadline, err := time.Parse(config.TIME_PARSE_FORMAT, body.Deadline)
	if err != nil {
		return nil, fmt.Errorf("bad deadline: %w", err)
	}

	status := types.EVENT_DRAFT
	if body.Publish {
		status = types.EVENT_OPEN
	}
	event := models.Event{
		Title:     body.Title,
		Name:      body.Name,
		Slug:      slug.Make(body.Name),
		Location:  body.Location,
		DateTime:  &dateTime,
		Deadline:  &deadline,
		Status:    status,
		CreatedBy: creatorID,
	}
	if body.Description != "" {
		event.About = &body.Description
	}
	if err := dbconn().Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateTicketType adds a purchasable tier to an event. Availability starts
// equal to the total quantity.
func CreateTicketType(body *types.CreateTicketTypeRequestBody) (*models.TicketType, error) {
	var event models.Event
	if err := dbconn().Where("id = ?", body.EventID).First(&event).Error; err != nil {
		if notFound(err) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	ticketType := models.TicketType{
		EventID:           event.ID,
		Name:              body.Name,
		Currency:          body.Currency,
		Price:             body.Price,
		TotalQuantity:     body.Quantity,
		AvailableQuantity: body.Quantity,
	}
	if err := dbconn().Create(&ticketType).Error; err != nil {
		return nil, err
	}
	return &ticketType, nil
}

// AdjustAvailability applies an operator correction to a tier's availability.
// The delta is validated before any row is touched; NaN, infinities and
// fractional values never reach the inventory.
func AdjustAvailability(ticketTypeID uint, delta float64) (*models.TicketType, error) {
	if err := inventory.ValidateAdjustment(ticketTypeID, delta); err != nil {
		return nil, err
	}
	var ticketType models.TicketType
	err := dbconn().Transaction(func(tx *gorm.DB) error {
		if err := inventory.UpdateAvailability(tx, ticketTypeID, delta); err != nil {
			return err
		}
		return tx.Where("id = ?", ticketTypeID).First(&ticketType).Error
	})
	if err != nil {
		return nil, err
	}
	return &ticketType, nil
}

// UpdateEventStatus moves an event through its lifecycle. Cancelling an
// event notifies every holder of a live ticket.
func UpdateEventStatus(eventID uint, status types.EventStatus) (*models.Event, error) {
	var event models.Event
	if err := dbconn().Where("id = ?", eventID).First(&event).Error; err != nil {
		if notFound(err) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if err := dbconn().Model(&event).Update("status", status).Error; err != nil {
		return nil, err
	}
	event.Status = status

	if status == types.EVENT_CANCELED {
		go notifyEventCanceled(&event)
	}
	return &event, nil
}

func notifyEventCanceled(event *models.Event) {
	var holders []models.User
	err := dbconn().
		Distinct("users.*").
		Joins("JOIN tickets ON tickets.user_id = users.id").
		Where("tickets.event_id = ? AND tickets.status = ?", event.ID, types.TICKET_PURCHASED).
		Find(&holders).
		Error
	if err != nil {
		log.Printf("failed to load holders for canceled event [%d]: %s", event.ID, err.Error())
		return
	}
	emails := make([]string, 0, len(holders))
	for _, h := range holders {
		emails = append(emails, h.Email)
	}
	if len(emails) > 0 {
		mailer.SendEventCanceledEmail(emails, event.Name)
	}
}

// ListOpenEvents is the public catalog: open events whose deadline has not
// passed, with their tiers.
func ListOpenEvents() ([]models.Event, error) {
	var events []models.Event
	err := dbconn().
		Where("status = ?", types.EVENT_OPEN).
		Where("deadline IS NULL OR deadline > ?", time.Now()).
		Preload("TicketTypes").
		Order("date_time ASC").
		Find(&events).
		Error
	return events, err
}

func GetTicketType(ticketTypeID uint) (*models.TicketType, error) {
	var ticketType models.TicketType
	err := dbconn().
		Where("id = ?", ticketTypeID).
		Preload("Event").
		First(&ticketType).
		Error
	if err != nil {
		if notFound(err) {
			return nil, ErrTicketTypeNotFound
		}
		return nil, err
	}
	return &ticketType, nil
}

// GetEvent loads one event with its tiers.
func GetEvent(eventID uint) (*models.Event, error) {
	var event models.Event
	err := dbconn().
		Where("id = ?", eventID).
		Preload("TicketTypes").
		First(&event).
		Error
	if err != nil {
		if notFound(err) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}
