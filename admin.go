// admin.go - admin dashboard for contact messages and privacy-conscious visitor stats
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
)

// Privacy-conscious visitor tracking struct
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageRecord is a stored contact form submission.
type MessageRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"message"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// messageRow is the CSV export shape of a MessageRecord.
type messageRow struct {
	ID        string `csv:"id"`
	CreatedAt string `csv:"created_at"`
	Name      string `csv:"name"`
	Email     string `csv:"email"`
	Subject   string `csv:"subject"`
	Message   string `csv:"message"`
	Status    string `csv:"status"`
}

type AdminStats struct {
	TotalVisitors    int64           `json:"total_visitors"`
	UniqueVisitors   int64           `json:"unique_visitors"`
	VisitorsToday    int64           `json:"visitors_today"`
	VisitorsThisWeek int64           `json:"visitors_this_week"`
	TotalMessages    int64           `json:"total_messages"`
	FailedMessages   int64           `json:"failed_messages"`
	RecentMessages   []MessageRecord `json:"recent_messages"`
	RecentVisitors   []VisitorMetric `json:"recent_visitors"`
}

// Initialize admin token and the salt used for IP hashing
func (a *app) initAdminToken() {
	a.adminToken = generateAdminToken()
	a.hashingSalt = generateAdminToken()

	log.Printf("Admin access available at: /admin/login")
	if gin.Mode() == gin.DebugMode {
		log.Printf("Admin token (dev only): %s", a.adminToken)
	}
}

func generateAdminToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate admin token:", err)
	}
	return hex.EncodeToString(bytes)
}

// Hash IP address for privacy compliance (consistent per IP)
func (a *app) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + a.hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// adminCredentials falls back to development defaults when unset.
func (a *app) adminCredentials() (string, string) {
	username, password := a.cfg.AdminUsername, a.cfg.AdminPassword
	if username == "" {
		username = "admin"
		if gin.Mode() == gin.DebugMode {
			log.Println("WARNING: Using default admin username. Set ADMIN_USERNAME environment variable.")
		}
	}
	if password == "" {
		password = "admin123"
		if gin.Mode() == gin.DebugMode {
			log.Println("WARNING: Using default admin password. Set ADMIN_PASSWORD environment variable.")
		}
	}
	return username, password
}

// Middleware to check admin authentication
func (a *app) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware
func (a *app) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/images/") ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/scene/") ||
			strings.HasPrefix(path, "/api/") ||
			strings.HasPrefix(path, "/favicon") ||
			strings.HasPrefix(path, "/privacy") {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		go a.trackVisitorPrivacy(c.ClientIP(), c.GetHeader("User-Agent"), path)
		c.Next()
	}
}

func (a *app) trackVisitorPrivacy(ip, userAgent, path string) {
	_, err := a.db.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, a.hashIP(ip), userAgent, path, time.Now().UTC())
	if err != nil {
		log.Printf("Error recording visitor: %v", err)
	}
}

func (a *app) initVisitorTracking() {
	if !a.cfg.TrackVisitors {
		log.Println("Privacy: Visitor tracking disabled")
		return
	}
	go a.cleanupOldVisitorData()
	log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")
}

// Cleanup old visitor data for privacy compliance
func (a *app) cleanupOldVisitorData() int64 {
	result, err := a.db.Exec(`
		DELETE FROM visitors
		WHERE timestamp < datetime('now', '-12 months')
	`)
	if err != nil {
		log.Printf("Error cleaning up old visitor data: %v", err)
		return 0
	}

	rowsDeleted, _ := result.RowsAffected()
	if rowsDeleted > 0 {
		log.Printf("Privacy cleanup: Removed %d visitor records older than 12 months", rowsDeleted)
	}
	return rowsDeleted
}

func (a *app) getAdminStats() (*AdminStats, error) {
	stats := &AdminStats{}

	counts := []struct {
		query string
		dst   *int64
	}{
		{"SELECT COUNT(*) FROM visitors", &stats.TotalVisitors},
		{"SELECT COUNT(DISTINCT hashed_ip) FROM visitors", &stats.UniqueVisitors},
		{"SELECT COUNT(*) FROM visitors WHERE DATE(timestamp) = DATE('now')", &stats.VisitorsToday},
		{"SELECT COUNT(*) FROM visitors WHERE timestamp >= datetime('now', '-7 days')", &stats.VisitorsThisWeek},
		{"SELECT COUNT(*) FROM messages", &stats.TotalMessages},
		{"SELECT COUNT(*) FROM messages WHERE status = 'failed'", &stats.FailedMessages},
	}
	for _, q := range counts {
		if err := a.db.QueryRow(q.query).Scan(q.dst); err != nil {
			return nil, err
		}
	}

	var err error
	if stats.RecentMessages, err = a.listMessages(10); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = a.listVisitors(50); err != nil {
		return nil, err
	}
	return stats, nil
}

func (a *app) listMessages(limit int) ([]MessageRecord, error) {
	rows, err := a.db.Query(`
		SELECT id, name, email, subject, body, status, COALESCE(error, ''), created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []MessageRecord
	for rows.Next() {
		var m MessageRecord
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Status, &m.Error, &m.CreatedAt); err != nil {
			log.Printf("Error scanning message: %v", err)
			continue
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (a *app) listVisitors(limit int) ([]VisitorMetric, error) {
	rows, err := a.db.Query(`
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			log.Printf("Error scanning visitor: %v", err)
			continue
		}
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

// Setup all admin routes
func (a *app) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title": "Privacy Policy",
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")
		adminUsername, adminPassword := a.adminCredentials()

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(adminUsername)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(adminPassword)) == 1
		if userOK && passOK {
			c.SetCookie("admin_token", a.adminToken, 3600*24, "/admin", "", false, true)
			log.Printf("Admin login successful from %s", a.hashIP(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}

		log.Printf("Failed admin login attempt from %s", a.hashIP(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"error": InvalidCredentials,
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		log.Printf("Admin logout from %s", a.hashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(a.adminAuthMiddleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.getAdminStats()
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.getAdminStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/messages", func(c *gin.Context) {
		messages, err := a.listMessages(500)
		if err != nil {
			log.Printf("Error loading messages: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load messages",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{
			"messages": messages,
		})
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.listVisitors(200)
		if err != nil {
			log.Printf("Error loading visitors: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	adminGroup.DELETE("/messages/:id", func(c *gin.Context) {
		id := c.Param("id")

		result, err := a.db.Exec("DELETE FROM messages WHERE id = ?", id)
		if err != nil {
			log.Printf("Error deleting message %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
			return
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}

		log.Printf("Message %s deleted by admin from %s", id, a.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		removed := a.cleanupOldVisitorData()
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": removed})
	})

	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.getAdminStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		log.Printf("Admin stats exported by %s", a.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/export/messages.csv", func(c *gin.Context) {
		messages, err := a.listMessages(100000)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		rows := make([]messageRow, 0, len(messages))
		for _, m := range messages {
			rows = append(rows, messageRow{
				ID:        m.ID,
				CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
				Name:      m.Name,
				Email:     m.Email,
				Subject:   m.Subject,
				Message:   m.Body,
				Status:    m.Status,
			})
		}
		out, err := gocsv.MarshalBytes(&rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=messages.csv")
		log.Printf("Messages exported by %s", a.hashIP(c.ClientIP()))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", out)
	})
}
