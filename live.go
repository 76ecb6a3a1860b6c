package main

import (
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vincentiusjacob/portfolio/internal/scene"
)

const (
	liveWriteWait = 5 * time.Second
	livePongWait  = 60 * time.Second
	livePingEvery = livePongWait * 9 / 10
	liveReadLimit = 4096
	liveWidth     = 1280
	liveHeight    = 720
	liveMaxSide   = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // read-only stream
	},
}

// liveMessage is the envelope of every websocket frame in either direction.
// Server: "scene" once after mount, then "pose" per frame.
// Client: "resize" with a new viewport.
type liveMessage struct {
	Type       string            `json:"type"`
	ID         string            `json:"id,omitempty"`
	Scene      *sceneDocument    `json:"scene,omitempty"`
	Projection *scene.Projection `json:"projection,omitempty"`
	Frame      *scene.Frame      `json:"frame,omitempty"`
	Viewport   *scene.Viewport   `json:"viewport,omitempty"`
}

// liveSurface streams a hero over a websocket connection.
type liveSurface struct {
	id   string
	conn *websocket.Conn
}

func (s *liveSurface) Attach(f *scene.Field, proj scene.Projection) error {
	doc := newSceneDocument(f)
	return s.write(liveMessage{Type: "scene", ID: s.id, Scene: &doc, Projection: &proj})
}

func (s *liveSurface) Draw(fr scene.Frame) error {
	return s.write(liveMessage{Type: "pose", Frame: &fr})
}

func (s *liveSurface) Release() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return s.conn.Close()
}

func (s *liveSurface) write(m liveMessage) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(liveWriteWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(m)
}

// handleLive upgrades to a websocket and drives a hero over it until the
// client goes away.
func (a *app) handleLive(c *gin.Context) {
	cfg, ok := a.sceneConfig(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": InvalidSeed})
		return
	}
	vp := scene.Viewport{
		Width:  queryInt(c, "w", liveWidth, 1, liveMaxSide),
		Height: queryInt(c, "h", liveHeight, 1, liveMaxSide),
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	interval := scene.DefaultInterval
	if a.cfg.SceneFPS > 0 {
		interval = time.Second / time.Duration(a.cfg.SceneFPS)
	}

	surface := &liveSurface{id: uuid.NewString(), conn: conn}
	hero, err := scene.Mount(surface, vp, scene.WithConfig(cfg), scene.WithInterval(interval))
	if err != nil {
		log.Printf("Live scene %s: %v", surface.id, err)
		return
	}
	log.Printf("Live scene %s mounted (%d points, %d links)", surface.id, len(hero.Field().Points), len(hero.Field().Edges))

	go readResizes(conn, hero)

	if err := hero.Run(c.Request.Context()); err != nil && !isClosed(err) {
		log.Printf("Live scene %s stopped: %v", surface.id, err)
		return
	}
	log.Printf("Live scene %s torn down", surface.id)
}

// readResizes forwards viewport changes to hero and tears it down once the
// client disconnects or stops answering pings.
func readResizes(conn *websocket.Conn, hero *scene.Hero) {
	defer hero.Teardown()

	conn.SetReadLimit(liveReadLimit)
	conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(conn, done)

	for {
		var m liveMessage
		if err := conn.ReadJSON(&m); err != nil {
			if !isClosed(err) {
				log.Printf("Live scene read: %v", err)
			}
			return
		}
		if m.Type == "resize" && m.Viewport != nil && m.Viewport.Width > 0 && m.Viewport.Height > 0 {
			hero.Resize(*m.Viewport)
		}
	}
}

// pingLoop keeps the connection alive until done is closed or a ping fails.
func pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	pingTicker := time.NewTicker(livePingEvery)
	defer pingTicker.Stop()
	for {
		select {
		case <-done:
			return
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait)); err != nil {
				return
			}
		}
	}
}

func isClosed(err error) bool {
	return errors.Is(err, websocket.ErrCloseSent) ||
		errors.Is(err, net.ErrClosed) ||
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
