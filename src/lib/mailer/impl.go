package mailer

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"etix/src/lib"
	awslib "etix/src/lib/aws"
)

// enqueue hands the message to the email queue. In local environments the
// message is sent directly over SMTP instead.
func enqueue(input *lib.SendMailInput) error {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		return lib.SendMail(input)
	}
	emailQueue := os.Getenv("EMAIL_QUEUE")
	if emailQueue == "" {
		// no queue configured, hand the message to SES directly
		awslib.SESSendSimpleMessage(input.From, input.To, input.Subject, input.Body)
		return nil
	}
	emailBody := map[string]any{
		"from":      input.From,
		"from-name": input.FromName,
		"to":        input.To,
		"reply-to":  input.ReplyTo,
		"body":      input.Body,
		"html":      input.Html,
		"subject":   input.Subject,
	}
	body, err := json.Marshal(&emailBody)
	if err != nil {
		return err
	}
	if err := awslib.SQSProduceMessage(emailQueue, string(body)); err != nil {
		return fmt.Errorf("error sending message to queue: %s", err.Error())
	}
	return nil
}

// SendTicketEmail notifies a buyer about their new tickets. Failures are
// logged, never propagated to the purchase transaction.
func SendTicketEmail(to string, name string, eventName string, ticketCount int) {
	input := &lib.SendMailInput{
		From:     os.Getenv("MAIL_FROM"),
		FromName: "etix",
		To:       []string{to},
		Subject:  fmt.Sprintf("Your tickets for %s", eventName),
		Body:     fmt.Sprintf("Hi %s,\n\nYour purchase of %d ticket(s) for %s is confirmed. See you there!", name, ticketCount, eventName),
	}
	if err := enqueue(input); err != nil {
		log.Printf("Error sending ticket email to %s: %s\n", to, err.Error())
	}
}

// SendRefundCompletedEmail notifies a user that a refund finished.
func SendRefundCompletedEmail(to string, eventName string, amount float64) {
	input := &lib.SendMailInput{
		From:     os.Getenv("MAIL_FROM"),
		FromName: "etix",
		To:       []string{to},
		Subject:  fmt.Sprintf("Refund completed for %s", eventName),
		Body:     fmt.Sprintf("Your refund of %.2f for %s has been completed.", amount, eventName),
	}
	if err := enqueue(input); err != nil {
		log.Printf("Error sending refund email to %s: %s\n", to, err.Error())
	}
}

// SendEventCanceledEmail notifies ticket holders that an event was canceled.
func SendEventCanceledEmail(to []string, eventName string) {
	if len(to) == 0 {
		return
	}
	input := &lib.SendMailInput{
		From:     os.Getenv("MAIL_FROM"),
		FromName: "etix",
		To:       to,
		Subject:  fmt.Sprintf("%s has been canceled", eventName),
		Body:     fmt.Sprintf("We are sorry to let you know that %s has been canceled. Your tickets are eligible for a full refund.", eventName),
	}
	if err := enqueue(input); err != nil {
		log.Printf("Error sending event canceled email: %s\n", err.Error())
	}
}
