package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/jsmitterc/remesafe/internal/core/ports/services"
	"github.com/jsmitterc/remesafe/internal/dto"
	"github.com/jsmitterc/remesafe/internal/middleware"
)

// ledgerHandler handles HTTP requests for ledger entries: manual posting,
// incomplete-entry workflows and bulk operations.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// registerLedgerRoutes registers routes related to ledger entries.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService}

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("/incomplete", h.listIncompleteEntries)
		entries.GET("/:id", h.getEntry)
		entries.POST("/:id/assign", h.assignAccount)
		entries.POST("/bulk-assign", h.bulkAssign)
		entries.POST("/smart-assign", h.smartBulkAssign)
		entries.POST("/classify", h.bulkClassify)
		entries.DELETE("", h.deleteEntries)
	}
}

func (h *ledgerHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.ledgerService.CreateEntry(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create entry")
		return
	}

	logger.Info("Entry created", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

func (h *ledgerHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// An optional perspective account code derives the classification from
	// that account's point of view.
	perspective := c.Query("perspective")

	entry, err := h.ledgerService.GetEntry(c.Request.Context(), userID, c.Param("id"), perspective)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *ledgerHandler) listIncompleteEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	accountCode := c.Query("accountCode")
	if accountCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accountCode query parameter is required"})
		return
	}

	var query dto.ListEntriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query params for ListIncompleteEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.ListIncompleteEntries(c.Request.Context(), userID, accountCode, query.ToParams())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list incomplete entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ledgerHandler) assignAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AssignAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AssignAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.ledgerService.AssignAccount(c.Request.Context(), userID, c.Param("id"), req.AccountCode, req.Side); err != nil {
		respondServiceError(c, logger, err, "Failed to assign account")
		return
	}

	logger.Info("Entry leg assigned", slog.String("entry_id", c.Param("id")))
	c.Status(http.StatusNoContent)
}

func (h *ledgerHandler) bulkAssign(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BulkAssign", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.ledgerService.BulkAssign(c.Request.Context(), userID, req.EntryIDs, req.AccountCode, req.Side)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to bulk assign entries")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ledgerHandler) smartBulkAssign(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SmartBulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SmartBulkAssign", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.ledgerService.SmartBulkAssign(c.Request.Context(), userID, req.EntryIDs, req.AccountCode)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to smart assign entries")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ledgerHandler) bulkClassify(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BulkClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BulkClassify", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.ledgerService.BulkClassify(c.Request.Context(), userID, req.EntryIDs, req.Classification)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to classify entries")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updatedCount": updated})
}

func (h *ledgerHandler) deleteEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DeleteEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DeleteEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	deleted, err := h.ledgerService.DeleteEntries(c.Request.Context(), userID, req.EntryIDs)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to delete entries")
		return
	}

	logger.Info("Entries deleted", slog.Int64("deleted", deleted))
	c.JSON(http.StatusOK, gin.H{"deletedCount": deleted})
}
