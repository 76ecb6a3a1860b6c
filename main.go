package main

import (
	"database/sql"
	"log"
	"math/rand/v2"
	"net/http"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"

	"github.com/vincentiusjacob/portfolio/internal/content"
	"github.com/vincentiusjacob/portfolio/internal/mail"
	"github.com/vincentiusjacob/portfolio/internal/scene"
)

// app carries the dependencies shared by the handlers.
type app struct {
	cfg     Config
	db      *sql.DB
	content *content.Content
	mailer  mail.Sender

	adminToken  string
	hashingSalt string
}

func main() {
	cfg := loadConfig()

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	defer db.Close()

	site, err := content.Load(cfg.ContentFile)
	if err != nil {
		log.Fatal("Failed to load content: ", err)
	}

	a := newApp(cfg, db, site, mail.New(cfg.Mail))
	a.initVisitorTracking()

	r := a.setupRouter()
	log.Printf("Listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func newApp(cfg Config, db *sql.DB, site *content.Content, mailer mail.Sender) *app {
	a := &app{cfg: cfg, db: db, content: site, mailer: mailer}
	a.initAdminToken()
	return a
}

func (a *app) setupRouter() *gin.Engine {
	r := gin.Default()
	r.LoadHTMLGlob(a.cfg.TemplateGlob)

	r.Static("/images", "./images")
	r.Static("/static", "./static")

	if a.cfg.TrackVisitors {
		r.Use(a.visitorTrackingMiddleware())
	}

	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"content":  a.content,
			"featured": a.content.Featured(),
			"dots":     scene.Dots(scene.DefaultDots, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))),
			"sceneFPS": a.cfg.SceneFPS,
		})
	})

	// HTMX fragments
	r.GET("/about-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "about-content.html", gin.H{
			"content": a.content,
		})
	})

	r.GET("/work-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "work-content.html", gin.H{
			"projects": a.content.Featured(),
			"total":    len(a.content.Projects),
		})
	})

	r.GET("/projects", func(c *gin.Context) {
		c.HTML(http.StatusOK, "projects.html", gin.H{
			"projects": a.content.Projects,
		})
	})

	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title":   "Get in Touch",
			"content": a.content,
		})
	})

	// Contact relay: JSON API and HTMX form
	r.POST("/api/send", a.handleSend)
	r.POST("/contact", a.handleContactForm)

	// Hero scene
	r.GET("/api/scene", a.handleScene)
	r.GET("/scene/preview.gif", a.handlePreview)
	r.GET("/scene/live", a.handleLive)

	a.setupAdminRoutes(r)
	return r
}
