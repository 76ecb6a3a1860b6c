package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vincentiusjacob/portfolio/internal/mail"
)

const sendTimeout = 15 * time.Second

// Message delivery states stored with each submission.
const (
	statusSent   = "sent"
	statusFailed = "failed"
)

// handleSend relays a JSON submission {name, email, subject, message}.
func (a *app) handleSend(c *gin.Context) {
	var m mail.Message
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ContactInvalid})
		return
	}

	id, err := a.deliver(c.Request.Context(), m)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": ContactError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id}})
}

// handleContactForm is the HTMX variant, answering with an HTML fragment.
func (a *app) handleContactForm(c *gin.Context) {
	var m mail.Message
	if err := c.ShouldBind(&m); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": ContactInvalid,
		})
		return
	}

	if _, err := a.deliver(c.Request.Context(), m); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": ContactError,
		})
		return
	}

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": ContactSuccess,
	})
}

// deliver sends m and records the outcome. The returned id identifies the
// stored submission whether or not sending succeeded.
func (a *app) deliver(ctx context.Context, m mail.Message) (string, error) {
	id := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	sendErr := a.mailer.Send(ctx, m)

	status, errText := statusSent, ""
	if sendErr != nil {
		status, errText = statusFailed, sendErr.Error()
		log.Printf("Error sending contact message %s: %v", id, sendErr)
	} else {
		log.Printf("Contact message %s sent for %s", id, m.Email)
	}

	if err := a.saveMessage(id, m, status, errText); err != nil {
		log.Printf("Error storing contact message %s: %v", id, err)
	}
	return id, sendErr
}

func (a *app) saveMessage(id string, m mail.Message, status, errText string) error {
	_, err := a.db.Exec(`
		INSERT INTO messages (id, name, email, subject, body, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, m.Name, m.Email, m.Subject, m.Body, status, errText, time.Now().UTC())
	return err
}
