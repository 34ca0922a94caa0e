package library

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mangatheque/internal/imagedata"
	"mangatheque/pkg/models"
)

// SyncStatus reports which series have a volume-count sync in flight.
type SyncStatus interface {
	IsSyncing(seriesID string) bool
}

type Handler struct {
	Store  *Store
	Sync   SyncStatus
	Images imagedata.Encoder
}

func NewHandler(store *Store, status SyncStatus, images imagedata.Encoder) *Handler {
	return &Handler{Store: store, Sync: status, Images: images}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/series", h.list)
	rg.POST("/series", h.addSeries)
	rg.GET("/series/:id", h.getOne)
	rg.DELETE("/series/:id", h.deleteSeries)
	rg.PUT("/series/:id/image", h.updateImage)
	rg.POST("/series/:id/volumes", h.addVolume)
	rg.POST("/series/:id/volumes/:volume_id/toggle", h.toggleVolume)
	rg.DELETE("/series/:id/volumes/:volume_id", h.deleteVolume)

	rg.GET("/nav", h.getNav)
	rg.POST("/nav", h.setNav)
}

type seriesView struct {
	models.Series
	OwnedCount int  `json:"ownedCount"`
	Syncing    bool `json:"syncing"`
}

func (h *Handler) view(s models.Series) seriesView {
	v := seriesView{Series: s, OwnedCount: s.OwnedCount()}
	if h.Sync != nil {
		v.Syncing = h.Sync.IsSyncing(s.ID)
	}
	return v
}

func (h *Handler) list(c *gin.Context) {
	all := h.Store.List()
	items := make([]seriesView, 0, len(all))
	for _, s := range all {
		items = append(items, h.view(s))
	}
	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

func (h *Handler) getOne(c *gin.Context) {
	s, ok := h.Store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, h.view(s))
}

func (h *Handler) addSeries(c *gin.Context) {
	var req models.SeriesDraft
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	created, err := h.Store.AddSeries(c.Request.Context(), req)
	if errors.Is(err, ErrInvalidTitle) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	c.Header("Location", "/series/"+created.ID)
	c.JSON(http.StatusCreated, h.view(created))
}

func (h *Handler) deleteSeries(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	deleted, err := h.Store.DeleteSeries(c.Request.Context(), c.Param("id"), Always(confirmed))
	switch {
	case errors.Is(err, ErrSeriesNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	case !deleted:
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "confirmation required: repeat with ?confirm=true"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

type imageReq struct {
	ImageURL string `json:"imageUrl"`
}

// updateImage accepts either JSON {imageUrl} or a multipart "image" file,
// which is encoded to a data URL.
func (h *Handler) updateImage(c *gin.Context) {
	id := c.Param("id")

	var url string
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read image"})
			return
		}
		defer f.Close()

		url, err = h.Images.Encode(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	} else {
		var req imageReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		url = req.ImageURL
	}

	err := h.Store.UpdateSeriesImage(c.Request.Context(), id, url)
	if errors.Is(err, ErrSeriesNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	s, _ := h.Store.Get(id)
	c.JSON(http.StatusOK, h.view(s))
}

type volumeReq struct {
	Number int `json:"number"`
}

func (h *Handler) addVolume(c *gin.Context) {
	var req volumeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "number must be an integer"})
		return
	}

	id := c.Param("id")
	added, err := h.Store.AddVolume(c.Request.Context(), id, req.Number)
	if !h.mutationError(c, err) {
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	s, _ := h.Store.Get(id)
	c.JSON(status, h.view(s))
}

func (h *Handler) toggleVolume(c *gin.Context) {
	id := c.Param("id")
	_, err := h.Store.ToggleVolumeOwned(c.Request.Context(), id, c.Param("volume_id"))
	if !h.mutationError(c, err) {
		return
	}
	s, _ := h.Store.Get(id)
	c.JSON(http.StatusOK, h.view(s))
}

func (h *Handler) deleteVolume(c *gin.Context) {
	id := c.Param("id")
	_, err := h.Store.DeleteVolume(c.Request.Context(), id, c.Param("volume_id"))
	if !h.mutationError(c, err) {
		return
	}
	s, _ := h.Store.Get(id)
	c.JSON(http.StatusOK, h.view(s))
}

// mutationError writes the response for err and reports whether the caller
// should continue.
func (h *Handler) mutationError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrSeriesNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, ErrInvalidVolumeNumber):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
	}
	return false
}

func (h *Handler) getNav(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Navigation())
}

func (h *Handler) setNav(c *gin.Context) {
	var req models.Navigation
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	switch models.View(strings.ToLower(strings.TrimSpace(string(req.View)))) {
	case models.ViewHome:
		h.Store.GoHome()
	case models.ViewReport:
		h.Store.OpenReport()
	case models.ViewDetail:
		if err := h.Store.OpenSeries(req.ActiveSeriesID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "series not found"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "view must be one of: home, detail, report"})
		return
	}
	c.JSON(http.StatusOK, h.Store.Navigation())
}
