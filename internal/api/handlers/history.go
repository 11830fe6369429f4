package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/osmane/billiards-sub001/internal/store"
)

// ListShots returns recent persisted shots, newest first.
func ListShots(shots *store.ShotStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if shots == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "shot history not configured"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		recs, err := shots.ListShots(c.Request.Context(), limit)
		if err != nil {
			log.Printf("[DB] list shots failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list shots"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"shots": recs})
	}
}

// GetShot returns one persisted shot by id.
func GetShot(shots *store.ShotStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if shots == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "shot history not configured"})
			return
		}
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shot id"})
			return
		}
		rec, err := shots.GetShot(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "shot not found"})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}
