package controller

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prismaasset360/web/internal/apiclient"
	"github.com/prismaasset360/web/internal/utils/idutils"
	log "github.com/sirupsen/logrus"
)

// RequestIDHeader carries the request ID to the browser and to the backend.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "pa360.requestID"

// RequestID tags each request with an ID, taken from the incoming header or generated, and forwards it to the
// backend with every call made for the request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			var err error
			if id, err = idutils.GenerateSnowflakeId(); err != nil {
				log.Warnln(err)
			}
		}

		if id != "" {
			c.Set(requestIDKey, id)
			c.Header(RequestIDHeader, id)
			c.Request = c.Request.WithContext(apiclient.WithRequestID(c.Request.Context(), id))
		}
		c.Next()
	}
}

// Logger logs method, path, status and latency of every request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"requestId": c.GetString(requestIDKey),
		})
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Warnln("Solicitud fallida")
		case strings.HasPrefix(c.Request.URL.Path, "/static/"):
			entry.Traceln("Solicitud atendida")
		default:
			entry.Debugln("Solicitud atendida")
		}
	}
}

// CORSMiddleware answers cross-origin requests from the listed origins. With no origins listed, no CORS headers are
// sent and browsers keep to same-origin requests.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || !originAllowed(origin, allowedOrigins) {
			c.Next()
			return
		}

		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", origin)
		header.Set("Access-Control-Allow-Credentials", "true")
		header.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		header.Add("Vary", "Origin")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func originAllowed(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		if allowed == "*" || strings.EqualFold(strings.TrimRight(allowed, "/"), origin) {
			return true
		}
	}

	return false
}
