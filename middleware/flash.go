// flash.go - One-shot messages carried across a redirect in a cookie

package middleware

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie  = "flash"
	flashInKey   = "flashes"     // messages read from the request
	flashOutKey  = "flashes_out" // messages queued for the next request
	flashMaxSize = 3 * 1024      // keep well under the 4KB cookie limit
)

// Flash is a transient message with a Bootstrap-style category
// (success, info, warning, danger).
type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// Flashes moves any flash cookie into the context and clears it, so each
// message is shown exactly once.
func Flashes() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(flashCookie); err == nil && raw != "" {
			c.Set(flashInKey, decodeFlashes(raw))                  // Expose to templates
			c.SetCookie(flashCookie, "", -1, "/", "", false, true) // Consume
		}
		c.Next()
	}
}

// SetFlash queues a message for the next page the client loads.
func SetFlash(c *gin.Context, category, message string) {
	var queued []Flash
	if v, ok := c.Get(flashOutKey); ok {
		queued = v.([]Flash)
	}
	queued = append(queued, Flash{Category: category, Message: message})
	c.Set(flashOutKey, queued)

	value := encodeFlashes(queued)
	if len(value) > flashMaxSize {
		value = encodeFlashes(queued[len(queued)-1:]) // Keep only the newest
	}
	c.SetCookie(flashCookie, value, 0, "/", "", false, true)
}

// GetFlashes returns the messages delivered with this request.
func GetFlashes(c *gin.Context) []Flash {
	if v, ok := c.Get(flashInKey); ok {
		return v.([]Flash)
	}
	return nil
}

func encodeFlashes(list []Flash) string {
	body, _ := json.Marshal(list)
	return base64.RawURLEncoding.EncodeToString(body)
}

func decodeFlashes(raw string) []Flash {
	body, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var list []Flash
	if err := json.Unmarshal(body, &list); err != nil {
		return nil
	}
	return list
}
