package report

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mangatheque/pkg/models"
)

type Lister interface {
	List() []models.Series
}

type Handler struct {
	Series Lister
}

func NewHandler(series Lister) *Handler {
	return &Handler{Series: series}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/report", h.report)
	rg.GET("/report/share", h.share)
}

func (h *Handler) report(c *gin.Context) {
	r := Build(h.Series.List())
	if c.Query("format") == "text" {
		c.String(http.StatusOK, r.Text())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": r.Entries,
		"text":    r.Text(),
	})
}

func (h *Handler) share(c *gin.Context) {
	text := Build(h.Series.List()).Text()
	c.JSON(http.StatusOK, gin.H{"mailto": MailtoLink(text)})
}
