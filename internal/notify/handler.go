// Package notify is the thin push relay that ships next to the client:
// devices register an endpoint per student email, and broadcast
// requests are forwarded to every matching endpoint. It holds no
// session state and never talks to the client cache.
package notify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/models"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Handler struct {
	DB   *gorm.DB
	HTTP *http.Client
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:   db,
		HTTP: &http.Client{Timeout: 10 * time.Second},
	}
}

type subscribeReq struct {
	StudentEmail string `json:"etudiantEmail" binding:"required"`
	Endpoint     string `json:"endpoint" binding:"required,url"`
}

// Subscribe registers an endpoint for a student. Re-registering the
// same endpoint for the same student returns the existing
// subscription instead of creating a duplicate.
func (h *Handler) Subscribe(c *gin.Context) {
	var req subscribeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid subscription request")
		return
	}
	if err := util.ValidateEmail(req.StudentEmail); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var existing models.Subscription
	err := h.DB.Where("student_email = ? AND endpoint = ?", req.StudentEmail, req.Endpoint).
		First(&existing).Error
	if err == nil {
		util.Success(c, gin.H{"subscription": existing})
		return
	}
	if err != gorm.ErrRecordNotFound {
		util.Error(c, http.StatusInternalServerError, "lookup subscription failed")
		return
	}

	sub := models.Subscription{
		ID:           uuid.NewString(),
		StudentEmail: req.StudentEmail,
		Endpoint:     req.Endpoint,
	}
	if err := h.DB.Create(&sub).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "create subscription failed")
		return
	}
	util.Success(c, gin.H{"subscription": sub})
}

// Unsubscribe removes a subscription by id. Removing an unknown id
// succeeds.
func (h *Handler) Unsubscribe(c *gin.Context) {
	id := c.Param("id")
	if err := h.DB.Delete(&models.Subscription{}, "id = ?", id).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "delete subscription failed")
		return
	}
	util.Success(c, gin.H{"deleted": id})
}

// ListSubscriptions returns subscriptions, optionally filtered by
// student email.
func (h *Handler) ListSubscriptions(c *gin.Context) {
	q := h.DB.Model(&models.Subscription{})
	if email := c.Query("etudiantEmail"); email != "" {
		q = q.Where("student_email = ?", email)
	}
	var subs []models.Subscription
	if err := q.Find(&subs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "list subscriptions failed")
		return
	}
	util.Success(c, gin.H{"subscriptions": subs})
}

type broadcastReq struct {
	Title      string   `json:"titre" binding:"required"`
	Message    string   `json:"message" binding:"required"`
	Recipients []string `json:"recipients"`
}

type pushPayload struct {
	ID           string `json:"id"`
	Title        string `json:"titre"`
	Message      string `json:"message"`
	StudentEmail string `json:"etudiantEmail"`
	SentAt       string `json:"sentAt"`
}

// Broadcast forwards a notification to every subscribed endpoint, or
// only to the listed recipient emails. Delivery is best effort: one
// unreachable endpoint does not fail the broadcast.
func (h *Handler) Broadcast(c *gin.Context) {
	var req broadcastReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid broadcast request")
		return
	}

	q := h.DB.Model(&models.Subscription{})
	if len(req.Recipients) > 0 {
		q = q.Where("student_email IN ?", req.Recipients)
	}
	var subs []models.Subscription
	if err := q.Find(&subs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "list subscriptions failed")
		return
	}

	id := uuid.NewString()
	sentAt := time.Now().UTC().Format(time.RFC3339)
	delivered, failed := 0, 0
	for _, sub := range subs {
		payload := pushPayload{
			ID:           id,
			Title:        req.Title,
			Message:      req.Message,
			StudentEmail: sub.StudentEmail,
			SentAt:       sentAt,
		}
		if h.deliver(sub.Endpoint, payload) {
			delivered++
		} else {
			failed++
		}
	}

	util.Success(c, gin.H{
		"id":        id,
		"delivered": delivered,
		"failed":    failed,
	})
}

func (h *Handler) deliver(endpoint string, payload pushPayload) bool {
	raw, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	resp, err := h.HTTP.Post(endpoint, "application/json", bytes.NewReader(raw))
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 400
}
