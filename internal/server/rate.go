package server

import (
	"github.com/gin-gonic/gin"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	ratedomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	"github.com/shopspring/decimal"
)

type quoteRequest struct {
	CheckIn        string              `json:"check_in"`
	CheckOut       string              `json:"check_out"`
	Guests         int                 `json:"guests"`
	DailyOccupancy []occupancy.Day     `json:"daily_occupancy"`
	HasPets        bool                `json:"has_pets"`
	RateOverride   decimal.NullDecimal `json:"rate_override"`
}

// @Summary      Get rate configuration
// @Tags         rates
// @Produce      json
// @Success      200  {object}  DataResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/rates/config [get]
func (s *Server) GetRateConfig(c *gin.Context) {
	cfg, err := s.rateSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, cfg)
}

// @Summary      Set rate configuration
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        request  body  ratedomain.UpsertRequest  true  "Rate configuration"
// @Success      200  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/rates/config [put]
func (s *Server) UpsertRateConfig(c *gin.Context) {
	var req ratedomain.UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	cfg, err := s.rateSvc.Upsert(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, cfg)
}

// @Summary      Quote a stay
// @Description  Prices a prospective stay against the organization's rate configuration
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        request  body  quoteRequest  true  "Quote"
// @Success      200  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/rates/quote [post]
func (s *Server) QuoteStay(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	checkIn, err := parseDate("check_in", req.CheckIn)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	checkOut, err := parseDate("check_out", req.CheckOut)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	breakdown, err := s.rateSvc.Quote(c.Request.Context(), ratedomain.QuoteRequest{
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   req.Guests,
		Days:     req.DailyOccupancy,
		HasPets:  req.HasPets,
		Override: req.RateOverride,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, breakdown)
}
