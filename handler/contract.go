package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/brunomainardes-tech/v0-contract-management-system/model"
	"github.com/brunomainardes-tech/v0-contract-management-system/pkg/logger"
	"github.com/brunomainardes-tech/v0-contract-management-system/service"
	"github.com/gin-gonic/gin"
)

type ContractHandler struct {
	store service.ContractStore
}

func NewContractHandler(store service.ContractStore) *ContractHandler {
	return &ContractHandler{store: store}
}

// List returns contracts, optionally filtered by status, category or a
// free-text search over number, description and contractor.
func (h *ContractHandler) List(c *gin.Context) {
	filter := service.ListFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	contracts, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list contracts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contracts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contracts": contracts,
		"total":     len(contracts),
	})
}

// Get returns a single contract by ID
func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to get contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get contract"})
		return
	}

	c.JSON(http.StatusOK, contract)
}

// validateContract checks the fields a contract cannot live without.
func validateContract(contract *model.Contract) string {
	if contract.ContractNumber == "" {
		return "contract_number is required"
	}
	if _, err := time.Parse("2006-01-02", contract.StartDate); err != nil {
		return "start_date must be in YYYY-MM-DD format"
	}
	if _, err := time.Parse("2006-01-02", contract.EndDate); err != nil {
		return "end_date must be in YYYY-MM-DD format"
	}
	if contract.ExtensionForecast != "" {
		if _, err := time.Parse("2006-01-02", contract.ExtensionForecast); err != nil {
			return "extension_forecast must be in YYYY-MM-DD format"
		}
	}
	return ""
}

// Create inserts a new contract
func (h *ContractHandler) Create(c *gin.Context) {
	var contract model.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if contract.Status == "" {
		contract.Status = model.StatusActive
	}
	if msg := validateContract(&contract); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	contract.ID = ""
	if err := h.store.Insert(c.Request.Context(), &contract); err != nil {
		logger.Error(c.Request.Context(), "failed to create contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contract"})
		return
	}

	logger.Info(c.Request.Context(), "contract created",
		"id", contract.ID, "contract_number", contract.ContractNumber)
	c.JSON(http.StatusCreated, contract)
}

// Update replaces a contract's fields
func (h *ContractHandler) Update(c *gin.Context) {
	var contract model.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	contract.ID = c.Param("id")
	if contract.Status == "" {
		contract.Status = model.StatusActive
	}
	if msg := validateContract(&contract); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	err := h.store.Update(c.Request.Context(), &contract)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to update contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contract"})
		return
	}

	c.JSON(http.StatusOK, contract)
}

// Delete removes a single contract
func (h *ContractHandler) Delete(c *gin.Context) {
	err := h.store.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to delete contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contract"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted"})
}

// ClearAll removes every contract. Used before re-importing a full
// spreadsheet.
func (h *ContractHandler) ClearAll(c *gin.Context) {
	if err := h.store.DeleteAll(c.Request.Context()); err != nil {
		logger.Error(c.Request.Context(), "failed to clear contracts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear contracts"})
		return
	}

	logger.Info(c.Request.Context(), "all contracts cleared")
	c.JSON(http.StatusOK, gin.H{"message": "All contracts deleted"})
}

// Stats returns dashboard aggregates
func (h *ContractHandler) Stats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "failed to compute stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Expiring returns active contracts whose end date falls within the next
// N days (default 90).
func (h *ContractHandler) Expiring(c *gin.Context) {
	days := 90
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	contracts, err := h.store.ExpiringWithin(c.Request.Context(), days)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list expiring contracts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list expiring contracts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contracts": contracts,
		"total":     len(contracts),
		"days":      days,
	})
}
