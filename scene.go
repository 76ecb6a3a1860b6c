package main

import (
	"bytes"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vincentiusjacob/portfolio/internal/scene"
)

// Preview limits.
const (
	previewFrames    = 60
	previewMaxFrames = 240
	previewWidth     = 480
	previewHeight    = 270
	previewMaxWidth  = 1280
	previewMaxHeight = 720
	previewStep      = 0.05

	// previewMaxPixels bounds the work of one request: frames×width×height.
	previewMaxPixels = previewFrames * previewWidth * previewHeight
)

// sceneDocument is the static part of the hero scene sent to clients.
type sceneDocument struct {
	Config    scene.Config `json:"config"`
	Count     int          `json:"count"`
	EdgeCount int          `json:"edgeCount"`
	Positions []float32    `json:"positions"`
	Colors    []float32    `json:"colors"`
	Segments  []float32    `json:"segments"`
	Dots      []scene.Dot  `json:"dots,omitempty"`
}

func newSceneDocument(f *scene.Field) sceneDocument {
	return sceneDocument{
		Config:    f.Config,
		Count:     len(f.Points),
		EdgeCount: len(f.Edges),
		Positions: f.Positions(),
		Colors:    f.Colors(),
		Segments:  f.Segments(),
	}
}

// sceneConfig returns the field configuration, honoring a ?seed= override.
func (a *app) sceneConfig(c *gin.Context) (scene.Config, bool) {
	cfg := scene.DefaultConfig()
	cfg.Seed = a.cfg.SceneSeed
	if s := c.Query("seed"); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return cfg, false
		}
		cfg.Seed = seed
	}
	return cfg, true
}

func (a *app) handleScene(c *gin.Context) {
	cfg, ok := a.sceneConfig(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": InvalidSeed})
		return
	}
	f := scene.Generate(cfg, nil)
	doc := newSceneDocument(f)
	doc.Dots = scene.Dots(scene.DefaultDots, cfg.Rand())
	c.JSON(http.StatusOK, doc)
}

// handlePreview renders the animated hero as a GIF.
func (a *app) handlePreview(c *gin.Context) {
	cfg, ok := a.sceneConfig(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": InvalidSeed})
		return
	}
	vp := scene.Viewport{
		Width:  queryInt(c, "w", previewWidth, 16, previewMaxWidth),
		Height: queryInt(c, "h", previewHeight, 16, previewMaxHeight),
	}
	frames := previewBudget(queryInt(c, "frames", previewFrames, 1, previewMaxFrames), vp)

	var buf bytes.Buffer
	surface := scene.NewGIFSurface(&buf, frames)
	hero, err := scene.Mount(surface, vp,
		scene.WithConfig(cfg),
		scene.WithInterval(0),
		scene.WithClock(&scene.StepClock{Step: previewStep}),
	)
	if err != nil {
		log.Printf("Error mounting preview: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render preview"})
		return
	}
	if err := hero.Run(c.Request.Context()); err != nil {
		log.Printf("Error rendering preview: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render preview"})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/gif", buf.Bytes())
}

// previewBudget lowers frames until frames×width×height fits previewMaxPixels.
func previewBudget(frames int, vp scene.Viewport) int {
	return max(1, min(frames, previewMaxPixels/(vp.Width*vp.Height)))
}

// queryInt reads an integer query parameter clamped to [lo, hi].
func queryInt(c *gin.Context, key string, def, lo, hi int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return min(max(v, lo), hi)
}
