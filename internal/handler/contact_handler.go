package handler

import (
	"net/http"

	"sdgconnect/internal/models"
	"sdgconnect/internal/repository"
	"sdgconnect/internal/service"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactRepo *repository.ContactRepository
	mailer      *service.Mailer
}

func NewContactHandler(contactRepo *repository.ContactRepository, mailer *service.Mailer) *ContactHandler {
	return &ContactHandler{contactRepo: contactRepo, mailer: mailer}
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Submit stores a contact form message and notifies the admin mailbox.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.contactRepo.Create(msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit message"})
		return
	}
	if h.mailer != nil {
		if err := h.mailer.SendContactNotification(c.Request.Context(), msg); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send your message. Please try again later."})
			return
		}
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok", "message": "Thank you for reaching out. We will get back to you soon."})
}
