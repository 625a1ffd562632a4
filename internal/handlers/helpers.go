package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamhub/internal/apperr"
	"teamhub/internal/authz"
	"teamhub/internal/models"
)

// getCaller reads the identity placed into the context by the auth
// middleware. A zero caller means the request slipped past the middleware.
func getCaller(c *gin.Context) authz.Caller {
	var caller authz.Caller
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(int64); ok {
			caller.ID = id
		}
	}
	if v, ok := c.Get("role"); ok {
		if r, ok := v.(string); ok {
			caller.Role = models.Role(r)
		}
	}
	return caller
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) int {
	v, ok := c.GetQuery(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// respondError maps a service error onto the HTTP response. Everything the
// services return is an *apperr.Error; anything else is a 500.
func respondError(c *gin.Context, tag string, err error) {
	if e, ok := apperr.As(err); ok {
		if e.Status >= http.StatusInternalServerError {
			log.Printf("%s[err] %v", tag, err)
		} else {
			log.Printf("%s[deny] status=%d code=%s msg=%q", tag, e.Status, e.Code, e.Message)
		}
		msg := e.Message
		if msg == "" {
			msg = e.Code
		}
		c.JSON(e.Status, gin.H{"error": msg, "code": e.Code})
		return
	}
	log.Printf("%s[err] %v", tag, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
