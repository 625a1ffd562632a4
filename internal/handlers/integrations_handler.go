package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"teamhub/internal/repositories"
	"teamhub/internal/services"
	"teamhub/internal/utils"
)

const linkCodeTTL = 10 * time.Minute

// IntegrationsHandler binds Telegram chats to accounts: the user requests
// a one-time code here, sends it to the bot, and the webhook completes
// the link.
type IntegrationsHandler struct {
	links repositories.TelegramLinkRepository
	tg    *services.TelegramService
}

func NewIntegrationsHandler(links repositories.TelegramLinkRepository, tg *services.TelegramService) *IntegrationsHandler {
	return &IntegrationsHandler{links: links, tg: tg}
}

// POST /integrations/telegram/link
func (h *IntegrationsHandler) CreateLinkCode(c *gin.Context) {
	caller := getCaller(c)

	code, err := utils.NewRefreshToken(4) // 8 hex chars is enough for a short-lived code
	if err != nil {
		log.Printf("[tg][link][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	link, err := h.links.Create(c.Request.Context(), caller.ID, code, linkCodeTTL)
	if err != nil {
		log.Printf("[tg][link][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	log.Printf("[tg][link][ok] user=%d expires=%s", caller.ID, link.ExpiresAt.Format(time.RFC3339))
	c.JSON(http.StatusCreated, gin.H{
		"code":       link.Code,
		"expires_at": link.ExpiresAt,
	})
}

// POST /integrations/telegram/webhook — public; Telegram delivers updates
// here. Only "/start <code>" messages are acted on.
func (h *IntegrationsHandler) Webhook(c *gin.Context) {
	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		log.Printf("[tg][webhook][bind][err] %v", err)
		c.Status(http.StatusOK) // never make Telegram retry
		return
	}
	if update.Message == nil {
		c.Status(http.StatusOK)
		return
	}

	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	code := strings.TrimSpace(strings.TrimPrefix(text, "/start"))
	if code == "" || code == text {
		_ = h.tg.SendMessage(chatID, "Send <code>/start &lt;link-code&gt;</code> to connect your account.")
		c.Status(http.StatusOK)
		return
	}

	link, err := h.links.UseByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("[tg][webhook][deny] unknown or expired code from chat=%d", chatID)
			_ = h.tg.SendMessage(chatID, "That code is unknown or expired. Request a new one.")
		} else {
			log.Printf("[tg][webhook][err] %v", err)
		}
		c.Status(http.StatusOK)
		return
	}

	if err := h.links.BindChat(c.Request.Context(), link.UserID, chatID); err != nil {
		log.Printf("[tg][webhook][err] bind user=%d chat=%d: %v", link.UserID, chatID, err)
		c.Status(http.StatusOK)
		return
	}
	log.Printf("[tg][webhook][ok] user=%d linked chat=%d", link.UserID, chatID)
	_ = h.tg.SendMessage(chatID, "Account linked. You will receive task notifications here.")
	c.Status(http.StatusOK)
}
