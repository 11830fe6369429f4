package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/osmane/billiards-sub001/internal/config"
	"github.com/osmane/billiards-sub001/internal/physics"
	"github.com/osmane/billiards-sub001/internal/predictor"
	"github.com/osmane/billiards-sub001/internal/redis"
	"github.com/osmane/billiards-sub001/internal/search"
	"github.com/osmane/billiards-sub001/internal/store"
)

// simCapSeconds bounds a live simulation request the same way the search caps
// its candidates, so a crafted snapshot cannot pin the server.
const simCapSeconds = 30.0

// SimulateShot applies an aim to a snapshot, advances to rest, and returns
// the outcome log plus the final snapshot. The resolved shot is persisted
// when a store is configured, and its outcomes published for subscribers.
func SimulateShot(shots *store.ShotStore, rdb *goredis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Table physics.TableSnapshot `json:"table" binding:"required"`
			Aim   physics.Aim           `json:"aim"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "table snapshot required"})
			return
		}

		if req.Table.Model == "" {
			req.Table.Model = cfg.CushionModel
		}
		table := physics.FromSnapshot(req.Table)
		table.Cue = req.Aim
		before := table.Snapshot()

		table.Hit()
		var t float64
		for t < simCapSeconds && !table.AllStationary() {
			if err := table.Advance(physics.FixedDt); err != nil {
				if errors.Is(err, physics.ErrStepUnresolvable) {
					log.Printf("[PHYSICS] unresolvable shot from %s: %v", c.ClientIP(), err)
					c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "shot unresolvable: geometry or configuration defect"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "simulation failed"})
				return
			}
			t += physics.FixedDt
		}

		after := table.Snapshot()

		shotID, err := shots.SaveShot(c.Request.Context(), before, req.Aim, table.Outcomes, after, nil)
		if err != nil {
			log.Printf("[DB] failed to save shot: %v", err)
		}
		redis.PublishOutcomes(c.Request.Context(), rdb, shotID, table.Outcomes)

		c.JSON(http.StatusOK, gin.H{
			"shot_id":  shotID,
			"duration": t,
			"outcomes": table.Outcomes,
			"table":    after,
		})
	}
}

// PredictShot shadow-simulates an aim for preview display.
func PredictShot() gin.HandlerFunc {
	p := predictor.New()
	return func(c *gin.Context) {
		var req struct {
			Table physics.TableSnapshot `json:"table" binding:"required"`
			Aim   physics.Aim           `json:"aim"`
			Short bool                  `json:"short,omitempty"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "table snapshot required"})
			return
		}

		pred := p.Predict(req.Table, req.Aim, req.Short)
		c.JSON(http.StatusOK, pred)
	}
}

// BestShot runs the parallel candidate search for a snapshot, consulting the
// Redis cache first — search is idempotent on identical inputs.
func BestShot(rdb *goredis.Client, cfg *config.Config) gin.HandlerFunc {
	cache := redis.NewBestShotCache(rdb)
	return func(c *gin.Context) {
		var req search.Request
		if err := c.ShouldBindJSON(&req); err != nil || len(req.Snapshot.Balls) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "table snapshot required"})
			return
		}

		if req.Config.SimCap <= 0 && cfg.SearchSimCapSecs > 0 {
			req.Config.SimCap = float64(cfg.SearchSimCapSecs)
		}
		if cfg.StrictKiss {
			req.Config.StrictKiss = true
		}

		if best, ok := cache.Get(c.Request.Context(), req); ok {
			c.JSON(http.StatusOK, gin.H{"best": best, "cached": true})
			return
		}

		best := search.BestParallel(c.Request.Context(), req, cfg.SearchWorkers)
		if best == nil {
			c.JSON(http.StatusOK, gin.H{"best": nil})
			return
		}

		cache.Put(c.Request.Context(), req, best)
		c.JSON(http.StatusOK, gin.H{"best": best})
	}
}
