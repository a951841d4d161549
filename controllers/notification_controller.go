package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"examnotify/models"
	"examnotify/notify"
	"examnotify/reconcile"
	"examnotify/scraper"
	"examnotify/store"
)

const (
	listCacheKey     = "notifications:list:default"
	defaultListLimit = 20
	dateLayout       = "2006-01-02"
)

type listResponse struct {
	Total int64                 `json:"total"`
	Items []models.Notification `json:"items"`
}

// ScrapeResult summarizes one scrape pass.
type ScrapeResult struct {
	Reconciled int              `json:"reconciled"`
	Outcomes   []notify.Outcome `json:"outcomes"`
}

type NotificationController struct {
	store      *store.Store
	fetcher    *scraper.Fetcher
	reconciler *reconcile.Reconciler
	dispatcher *notify.Dispatcher
	cache      *redis.Client
	cacheTTL   time.Duration
	scrapeMu   sync.Mutex
	log        zerolog.Logger
}

// NewNotificationController wires the pipeline. cache may be nil, in which
// case listings always hit the database.
func NewNotificationController(
	st *store.Store,
	fetcher *scraper.Fetcher,
	reconciler *reconcile.Reconciler,
	dispatcher *notify.Dispatcher,
	cache *redis.Client,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *NotificationController {
	return &NotificationController{
		store:      st,
		fetcher:    fetcher,
		reconciler: reconciler,
		dispatcher: dispatcher,
		cache:      cache,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// List serves GET /notifications.
func (nc *NotificationController) List(c *gin.Context) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skip must be a non-negative integer"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	sort, err := models.ParseSortOrder(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q := store.Query{Skip: skip, Limit: limit, Search: c.Query("search"), Sort: sort}
	if raw := c.Query("start_date"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
			return
		}
		q.StartDate = &d
	}
	if raw := c.Query("end_date"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
			return
		}
		// Inclusive of the whole end day.
		e := d.Add(24*time.Hour - time.Nanosecond)
		q.EndDate = &e
	}

	ctx := c.Request.Context()
	cacheable := nc.cache != nil &&
		q.Search == "" && q.StartDate == nil && q.EndDate == nil &&
		q.Sort == models.SortNewest && q.Skip == 0 && q.Limit == defaultListLimit

	if cacheable {
		if raw, err := nc.cache.Get(ctx, listCacheKey).Result(); err == nil {
			var resp listResponse
			if json.Unmarshal([]byte(raw), &resp) == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		} else if err != redis.Nil {
			nc.log.Warn().Err(err).Msg("list cache read failed")
		}
	}

	total, items, err := nc.store.Search(ctx, q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := listResponse{Total: total, Items: items}

	if cacheable {
		if raw, err := json.Marshal(resp); err == nil {
			if err := nc.cache.Set(ctx, listCacheKey, raw, nc.cacheTTL).Err(); err != nil {
				nc.log.Warn().Err(err).Msg("list cache write failed")
			}
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Scrape serves GET /scrape: fetch, reconcile, dispatch. Overlapping
// triggers are rejected rather than raced.
func (nc *NotificationController) Scrape(c *gin.Context) {
	result, ok := nc.TriggerScrape(c.Request.Context())
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "scrape already in progress"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "notifications scraped, saved, and sent successfully",
		"reconciled": result.Reconciled,
		"outcomes":   result.Outcomes,
	})
}

// TriggerScrape runs one serialized scrape pass. Returns ok=false when a
// pass is already in flight. Shared by the HTTP trigger and the poll ticker.
func (nc *NotificationController) TriggerScrape(ctx context.Context) (*ScrapeResult, bool) {
	if !nc.scrapeMu.TryLock() {
		return nil, false
	}
	defer nc.scrapeMu.Unlock()

	entries, err := nc.fetcher.Fetch(ctx)
	if err != nil {
		nc.log.Warn().Err(err).Msg("page fetch failed, pass continues empty")
		entries = nil
	}
	changed := nc.reconciler.Reconcile(ctx, entries)
	if len(changed) > 0 {
		nc.invalidateList(ctx)
	}
	outcomes := nc.dispatcher.Dispatch(ctx, changed)
	return &ScrapeResult{Reconciled: len(changed), Outcomes: outcomes}, true
}

// Delete serves DELETE /notifications/:id.
func (nc *NotificationController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}
	removed, err := nc.store.Delete(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	nc.invalidateList(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("notification %d deleted successfully", id)})
}

// Resend serves GET /notifications/:id/resend.
func (nc *NotificationController) Resend(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}
	n, err := nc.store.Get(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	outcome := nc.dispatcher.DispatchOne(c.Request.Context(), *n)
	if !outcome.OK() {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to resend notification", "detail": outcome.Error})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("notification %d resent successfully", id),
		"response": gin.H{"message_id": outcome.MessageID},
	})
}

func (nc *NotificationController) invalidateList(ctx context.Context) {
	if nc.cache == nil {
		return
	}
	if err := nc.cache.Del(ctx, listCacheKey).Err(); err != nil {
		nc.log.Warn().Err(err).Msg("list cache invalidation failed")
	}
}
