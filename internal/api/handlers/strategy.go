package handlers

import (
	"net/http"

	"plan-picker/internal/api/models"
	"plan-picker/internal/model"
	"plan-picker/internal/strategy"

	"github.com/gin-gonic/gin"
)

// StrategyHandler handles strategy-related requests
type StrategyHandler struct {
	defaultName string
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(defaultName string) *StrategyHandler {
	return &StrategyHandler{defaultName: defaultName}
}

// ListStrategies handles GET /api/v1/strategies
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	all := strategy.All()
	strategies := make([]models.StrategyInfo, 0, len(all))
	for _, s := range all {
		strategies = append(strategies, models.StrategyInfo{
			Name:        s.Name(),
			Description: s.Description(),
			Default:     s.Name() == h.defaultName,
		})
	}
	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}

// ListTariffs handles GET /api/v1/tariffs
func ListTariffs(c *gin.Context) {
	all := model.Tariffs()
	tariffs := make([]models.TariffInfo, len(all))
	for i, t := range all {
		tariffs[i] = models.TariffInfo{
			Code:        t.Code,
			Name:        t.Name,
			BaseMonthly: t.BaseMonthly,
			PerKWhCents: t.PerKWhCents,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"tariffs": tariffs,
		"as_of":   "2022-07-31",
		"count":   len(tariffs),
	})
}
