package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/JobConnect/internal/ads"
	"github.com/justsurfingit/JobConnect/internal/models"
	"github.com/justsurfingit/JobConnect/internal/services"
)

// AdHandler routes the gated intents (apply, unlock salary) and lets the
// client drive the overlay it is showing.
type AdHandler struct {
	JobService *services.JobService
	Sessions   *services.SessionService
}

func NewAdHandler(jobs *services.JobService, sessions *services.SessionService) *AdHandler {
	return &AdHandler{JobService: jobs, Sessions: sessions}
}

func (h *AdHandler) Apply(c *gin.Context) {
	job, ok := h.lookupJob(c)
	if !ok {
		return
	}
	overlay, err := h.Sessions.RequestApplyGate(job)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"overlay": overlay})
}

func (h *AdHandler) UnlockSalary(c *gin.Context) {
	job, ok := h.lookupJob(c)
	if !ok {
		return
	}
	if currentUser(c).IsAdmin() || h.Sessions.IsSalaryUnlocked(job.ID) {
		c.JSON(http.StatusOK, gin.H{"salary": job.Salary, "unlocked": true})
		return
	}
	overlay, err := h.Sessions.RequestSalaryUnlockGate(job)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"overlay": overlay})
}

func (h *AdHandler) CurrentOverlay(c *gin.Context) {
	overlay, active := h.Sessions.Ads.Current()
	c.JSON(http.StatusOK, gin.H{"overlay": overlay, "active": active})
}

// DismissOverlay answers 409 with a notice while a rewarded ad is still running.
func (h *AdHandler) DismissOverlay(c *gin.Context) {
	overlay, err := h.Sessions.DismissAd()
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"overlay": overlay}
	if overlay.Phase == ads.PhaseClosed && overlay.Kind == ads.KindRewarded {
		resp["message"] = "Reward Earned! Salary details unlocked."
		resp["unlockedJobId"] = overlay.SubjectJobID
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdHandler) StartBanner(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"banner": h.Sessions.Ads.Banner()})
}

func (h *AdHandler) BannerState(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid banner id"})
		return
	}
	banner, ok := h.Sessions.Ads.BannerState(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "banner not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"banner": banner})
}

func (h *AdHandler) lookupJob(c *gin.Context) (models.Job, bool) {
	job, ok, err := h.JobService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return models.Job{}, false
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return models.Job{}, false
	}
	return job, true
}
