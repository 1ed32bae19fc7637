package handlers

import (
	"net/http"
	"strconv"

	"github.com/communityspring/volunteer-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// listFilter builds the shared read-side filter from query parameters.
// A malformed programId is a 400, not a silent full listing.
func listFilter(c *gin.Context) (models.ListFilter, bool) {
	f := models.ListFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
	}
	if raw := c.Query("programId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid programId"})
			return f, false
		}
		f.ProgramID = uint(id)
	}
	return f, true
}

// ListOpportunities handles GET /opportunities
func (h *Handler) ListOpportunities(c *gin.Context) {
	f, ok := listFilter(c)
	if !ok {
		return
	}
	opps, err := h.Reader.Opportunities(f)
	if err != nil {
		h.engineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"opportunities": opps})
}

// ListPrograms handles GET /programs
func (h *Handler) ListPrograms(c *gin.Context) {
	f, ok := listFilter(c)
	if !ok {
		return
	}
	programs, err := h.Reader.Programs(f)
	if err != nil {
		h.engineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"programs": programs})
}

// ListWorkshops handles GET /workshops
func (h *Handler) ListWorkshops(c *gin.Context) {
	f, ok := listFilter(c)
	if !ok {
		return
	}
	workshops, err := h.Reader.Workshops(f)
	if err != nil {
		h.engineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workshops": workshops})
}
