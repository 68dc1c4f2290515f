package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/parkgazer/internal/apperr"
	"github.com/langchou/parkgazer/internal/favorites"
	"github.com/langchou/parkgazer/internal/models"
	"github.com/langchou/parkgazer/internal/service"
)

// Handler HTTP 처리기
type Handler struct {
	logger         *zap.Logger
	parkingService *service.ParkingService
	syncService    *service.SyncService
	favorites      favorites.Store
}

// NewHandler 처리기 생성
func NewHandler(
	logger *zap.Logger,
	parkingService *service.ParkingService,
	syncService *service.SyncService,
	fav favorites.Store,
) *Handler {
	return &Handler{
		logger:         logger,
		parkingService: parkingService,
		syncService:    syncService,
		favorites:      fav,
	}
}

// RegisterRoutes 라우트 등록
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// API 라우트
	api := r.Group("/api")
	{
		// 주차장
		api.GET("/parking", h.ListParkingLots)
		api.GET("/parking/:id", h.GetParkingLot)

		// 동기화
		api.POST("/sync", h.RunSync)
		api.GET("/sync/status", h.GetSyncStatus)

		// 즐겨찾기
		api.GET("/favorites", h.ListFavorites)
		api.POST("/favorites/:id/toggle", h.ToggleFavorite)
		api.DELETE("/favorites/:id", h.RemoveFavorite)
	}

	// 헬스 체크
	r.GET("/health", h.HealthCheck)
}

// ListParkingLots 주차장 목록 조회
// GET /api/parking?search=&sort=&availableOnly=&lat=&lng=
func (h *Handler) ListParkingLots(c *gin.Context) {
	params := service.ListParams{
		Search:        c.Query("search"),
		Sort:          models.ParseSortOption(c.Query("sort")),
		AvailableOnly: c.Query("availableOnly") == "true",
		Location:      parseLocation(c),
	}

	lots, err := h.parkingService.List(c.Request.Context(), params)
	if err != nil {
		h.logger.Error("Failed to list parking lots", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list parking lots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  lots,
		"total": len(lots),
	})
}

// GetParkingLot 주차장 상세 조회
func (h *Handler) GetParkingLot(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parking lot ID"})
		return
	}

	lot, err := h.parkingService.Get(c.Request.Context(), id, parseLocation(c))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Parking lot not found"})
			return
		}
		h.logger.Error("Failed to get parking lot", zap.Error(err), zap.Int64("id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get parking lot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lot})
}

// RunSync 공공데이터 동기화 실행
// POST /api/sync
func (h *Handler) RunSync(c *gin.Context) {
	result, err := h.syncService.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrSyncRunning) {
			c.JSON(http.StatusConflict, gin.H{"error": "Sync already in progress"})
			return
		}
		h.logger.Error("Sync failed", zap.Error(err))
		switch apperr.KindOf(err) {
		case apperr.KindNetwork, apperr.KindServer:
			c.JSON(http.StatusBadGateway, gin.H{"error": "Open data api unavailable"})
		case apperr.KindInvalid:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Sync failed"})
		}
		return
	}

	h.logger.Info("Sync finished via API", zap.Int("count", result.Count))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   result.Count,
		"message": fmt.Sprintf("Synced %d parking lots (%d geocoded)", result.Count, result.Geocoded),
	})
}

// GetSyncStatus 동기화 상태 조회
func (h *Handler) GetSyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.syncService.Status()})
}

// ListFavorites 즐겨찾기 주차장 ID 목록
func (h *Handler) ListFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.favorites.All()})
}

// ToggleFavorite 즐겨찾기 토글
func (h *Handler) ToggleFavorite(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parking lot ID"})
		return
	}

	added, err := h.favorites.Toggle(id)
	if err != nil {
		h.logger.Error("Failed to toggle favorite", zap.Error(err), zap.Int64("id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":       id,
			"favorite": added,
		},
	})
}

// RemoveFavorite 즐겨찾기 삭제
func (h *Handler) RemoveFavorite(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parking lot ID"})
		return
	}

	if err := h.favorites.Remove(id); err != nil {
		h.logger.Error("Failed to remove favorite", zap.Error(err), zap.Int64("id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed", "id": id})
}

// HealthCheck 헬스 체크
func (h *Handler) HealthCheck(c *gin.Context) {
	count, err := h.parkingService.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"parking_lots": count,
		"sync":         h.syncService.Status(),
	})
}

// parseLocation 쿼리에서 사용자 위치 추출. 둘 다 유효할 때만 사용
func parseLocation(c *gin.Context) *models.Location {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" || lngStr == "" {
		return nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil
	}

	return &models.Location{Latitude: lat, Longitude: lng}
}
