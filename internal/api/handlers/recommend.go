package handlers

import (
	"errors"
	"net/http"
	"time"

	"plan-picker/internal/analysis"
	"plan-picker/internal/api/models"
	"plan-picker/internal/billing"
	"plan-picker/internal/config"
	"plan-picker/internal/data"
	"plan-picker/internal/strategy"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RecommendHandler handles plan recommendation requests
type RecommendHandler struct {
	source data.CatalogSource
	cfg    *config.Config
	now    func() time.Time
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(source data.CatalogSource, cfg *config.Config) *RecommendHandler {
	if cfg == nil {
		cfg = config.Default()
	}
	return &RecommendHandler{source: source, cfg: cfg, now: time.Now}
}

// Recommend handles POST /api/v1/recommend
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req models.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	annual, err := h.cfg.Usage.EstimateAnnual(req.SqFt)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_SQ_FT",
				Message: err.Error(),
			},
		})
		return
	}

	stratName := req.Strategy
	if stratName == "" {
		stratName = h.cfg.Selection.Strategy
	}
	strat, err := strategy.Lookup(stratName)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_STRATEGY",
				Message: err.Error(),
			},
		})
		return
	}

	volatility := h.cfg.Valuation.Volatility
	if req.Volatility != 0 {
		volatility = req.Volatility
	}
	limit := h.cfg.Selection.Limit
	if req.Limit > 0 {
		limit = req.Limit
	}

	catalog, err := h.source.QueryPlans(c.Request.Context(), req.ZipCode)
	if err != nil {
		writeCatalogError(c, err)
		return
	}

	rec, err := analysis.Recommend(c.Request.Context(), catalog.Data, analysis.Options{
		AnnualKWh: annual,
		Filter: analysis.Filter{
			MinTermMonths:    h.cfg.Selection.MinTermMonths,
			RenewableOnly:    req.RenewableOnly,
			RenewablePercent: h.cfg.Selection.RenewablePercent,
		},
		HoldingMonths: h.cfg.Selection.HoldingMonths,
		Volatility:    volatility,
		Strategy:      strat,
		Limit:         limit,
		Workers:       h.cfg.Valuation.Workers,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "RECOMMEND_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	resp := buildRecommendResponse(rec)
	resp.ID = uuid.NewString()

	if req.IncludeBills && len(rec.Ranked) > 0 {
		top := rec.Ranked[0]
		res, err := billing.New().Run(top, annual, h.now(), 12)
		if err != nil {
			log.Warnf("[Recommend] bill projection failed for %s: %v", top.Plan.Key(), err)
		} else {
			resp.Bills = buildBillProjection(res)
		}
	}

	log.WithFields(log.Fields{
		"id":        resp.ID,
		"zip_code":  req.ZipCode,
		"offered":   rec.PlansOffered,
		"ranked":    len(rec.Ranked),
		"skipped":   len(rec.Skipped),
		"strategy":  rec.Strategy,
		"reference": rec.ReferenceRate,
	}).Info("[Recommend] Completed")

	c.JSON(http.StatusOK, resp)
}

func buildRecommendResponse(rec *analysis.Recommendation) models.RecommendResponse {
	resp := models.RecommendResponse{
		GoodToGo:        rec.GoodToGo,
		Reason:          rec.Reason,
		AnnualUsageKWh:  rec.AnnualKWh,
		ReferenceRate:   rec.ReferenceRate,
		Strategy:        rec.Strategy,
		PlansOffered:    rec.PlansOffered,
		PlansConsidered: rec.PlansConsidered,
		Plans:           make([]models.RankedPlan, len(rec.Ranked)),
	}
	for i, p := range rec.Ranked {
		resp.Plans[i] = models.RankedPlan{
			Rank:              i + 1,
			CompanyName:       p.Plan.CompanyName,
			PlanName:          p.Plan.PlanName,
			PlanID:            p.Plan.PlanID,
			TermMonths:        p.Plan.TermValue,
			RenewablePercent:  p.Plan.RenewableEnergyID,
			MeteredCents:      p.MeteredCentsPerKWh,
			FixedCents:        p.FixedCentsPerMonth,
			Cost12Months:      p.CostBase12,
			AvgRate:           p.AvgRate,
			CancellationFee:   p.CancellationFee,
			FeePerMonth:       p.FeePerMonth,
			OptionValue:       p.OptionValue,
			OptionCentsPerKWh: p.OptionPerKWh * 100,
			EffectiveRate:     p.EffectiveRate,
			DeliveryEstimate:  p.DeliveryEstimate,
			FactSheet:         p.Plan.FactSheet,
			GoToPlan:          p.Plan.GoToPlan,
		}
	}
	for _, s := range rec.Skipped {
		resp.Skipped = append(resp.Skipped, models.SkippedPlan{
			PlanKey:     s.PlanKey,
			CompanyName: s.CompanyName,
			Reason:      s.Reason,
		})
	}
	if rec.Summary.Count > 0 {
		s := rec.Summary
		resp.Summary = &models.MarketSummary{
			Count:            s.Count,
			MinRate:          s.MinRate,
			MaxRate:          s.MaxRate,
			MeanRate:         s.MeanRate,
			MedianRate:       s.MedianRate,
			P05Rate:          s.P05Rate,
			P95Rate:          s.P95Rate,
			StdDevRate:       s.StdDevRate,
			MeanOptionPerKWh: s.MeanOptionPerKWh,
			MinEffectiveRate: s.MinEffectiveRate,
		}
	}
	return resp
}

func buildBillProjection(res *billing.Result) *models.BillProjection {
	out := &models.BillProjection{
		PlanKey: res.PlanKey,
		Total:   res.Total.StringFixed(2),
		AvgRate: res.AvgRate,
		Months:  make([]models.BillRow, len(res.Ledger)),
	}
	for i, r := range res.Ledger {
		out.Months[i] = models.BillRow{
			Month:        r.Month,
			UsageKWh:     r.UsageKWh,
			EnergyCharge: r.EnergyCharge.StringFixed(2),
			FixedCharge:  r.FixedCharge.StringFixed(2),
			Bill:         r.Bill.StringFixed(2),
			CumBill:      r.CumBill.StringFixed(2),
		}
	}
	return out
}

// writeCatalogError maps marketplace failures onto API errors.
func writeCatalogError(c *gin.Context, err error) {
	var cErr *data.CatalogError
	if errors.As(err, &cErr) {
		statusCode := http.StatusBadGateway
		switch {
		case cErr.StatusCode == 0:
			statusCode = http.StatusBadRequest
		case cErr.StatusCode == http.StatusForbidden || cErr.StatusCode == http.StatusUnauthorized:
			statusCode = http.StatusUnauthorized
		case cErr.StatusCode == http.StatusTooManyRequests:
			statusCode = http.StatusTooManyRequests
		}
		c.JSON(statusCode, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    cErr.Code,
				Message: cErr.Message,
				Details: map[string]interface{}{
					"status_code": cErr.StatusCode,
					"retry_after": cErr.RetryAfter,
				},
			},
		})
		return
	}
	c.JSON(http.StatusBadGateway, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "DATA_FETCH_ERROR",
			Message: err.Error(),
		},
	})
}
