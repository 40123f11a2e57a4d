package web

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/deemkeen/bnotas/api"
	"github.com/deemkeen/bnotas/domain"
	"github.com/deemkeen/bnotas/util"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

//go:embed templates/*.html
var templatesFS embed.FS

// SessionFinder resolves a feed token to the session it was issued for.
type SessionFinder interface {
	ReadSessionByFeedToken(feedToken string) (string, *domain.AuthSession, error)
}

// NewRouter builds the companion web server: the password reset page that
// reset emails link to and the per-device reminder feed.
func NewRouter(conf *util.AppConfig, sessions SessionFinder) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	g.Use(gzip.Gzip(gzip.DefaultCompression))

	// Global rate limiter: 10 requests per second per IP, burst of 20
	globalLimiter := NewRateLimiter(rate.Limit(10), 20)
	g.Use(RateLimitMiddleware(globalLimiter))

	g.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	newClient := func() *api.Client {
		return api.New(conf.Conf.ApiUrl, nil, "", conf.Timeout())
	}

	g.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/reset-password")
	})

	g.GET("/reset-password", func(c *gin.Context) {
		HandleResetForm(c)
	})

	// Stricter limit for password changes: 1 req/sec per IP
	resetLimiter := NewRateLimiter(rate.Limit(1), 5)
	g.POST("/reset-password", RateLimitMiddleware(resetLimiter), MaxBytesMiddleware(16*1024), func(c *gin.Context) {
		HandleResetSubmit(c, newClient())
	})

	g.GET("/feed/:feedToken", func(c *gin.Context) {
		c.Header("Content-Type", "application/xml; charset=utf-8")

		deviceKey, session, err := sessions.ReadSessionByFeedToken(c.Param("feedToken"))
		if err != nil || !session.Valid() {
			c.String(http.StatusNotFound, "")
			return
		}

		client := newClient()
		client.UseSession(session)
		rss, err := GetReminderFeed(c.Request.Context(), conf, client, c.Param("feedToken"), time.Now())
		if err != nil {
			log.Printf("Could not build feed for %s: %v", deviceKey, err)
			c.String(http.StatusBadGateway, "")
			return
		}
		c.String(http.StatusOK, rss)
	})

	return g
}

// Router serves NewRouter on the configured HTTP port.
func Router(conf *util.AppConfig, sessions SessionFinder) error {
	log.Printf("Starting web server on %s:%d", conf.Conf.Host, conf.Conf.HttpPort)
	return NewRouter(conf, sessions).Run(fmt.Sprintf("%s:%d", conf.Conf.Host, conf.Conf.HttpPort))
}
