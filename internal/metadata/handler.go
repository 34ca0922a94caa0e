package metadata

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mangatheque/pkg/models"
)

type SeriesLookup interface {
	Get(id string) (models.Series, bool)
}

type Handler struct {
	Suggester *Suggester
	Syncer    *Syncer
	Series    SeriesLookup
}

func NewHandler(sg *Suggester, sy *Syncer, series SeriesLookup) *Handler {
	return &Handler{Suggester: sg, Syncer: sy, Series: series}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/suggest", h.suggest)
	rg.POST("/series/:id/sync", h.startSync)
	rg.GET("/sync", h.inFlight)
}

type suggestReq struct {
	Query string `json:"query"`
}

func (h *Handler) suggest(c *gin.Context) {
	var req suggestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	s := h.Suggester.Suggest(c.Request.Context(), req.Query)
	if s == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) startSync(c *gin.Context) {
	id := c.Param("id")
	s, ok := h.Series.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.Syncer.SyncAsync(s.ID, s.Title)
	c.JSON(http.StatusAccepted, gin.H{
		"seriesId": s.ID,
		"syncing":  true,
	})
}

func (h *Handler) inFlight(c *gin.Context) {
	ids := h.Syncer.InFlight()
	c.JSON(http.StatusOK, gin.H{
		"total":  len(ids),
		"series": ids,
	})
}
