package server

import (
	"github.com/gin-gonic/gin"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	staydomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/domain"
	"github.com/shopspring/decimal"
)

type createStayRequest struct {
	FamilyGroup     string                      `json:"family_group"`
	HostAssignments []staydomain.HostAssignment `json:"host_assignments"`
	OwnerUserID     string                      `json:"owner_user_id"`
	StartDate       string                      `json:"start_date"`
	EndDate         string                      `json:"end_date"`
	DailyOccupancy  []occupancy.Day             `json:"daily_occupancy"`
	Status          staydomain.Status           `json:"status"`
	HasPets         bool                        `json:"has_pets"`
	RateOverride    decimal.NullDecimal         `json:"rate_override"`
}

type updateOccupancyRequest struct {
	DailyOccupancy []occupancy.Day `json:"daily_occupancy"`
}

// @Summary      Create stay
// @Tags         stays
// @Accept       json
// @Produce      json
// @Param        request  body  createStayRequest  true  "Stay"
// @Success      201  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/stays [post]
func (s *Server) CreateStay(c *gin.Context) {
	var req createStayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	stay, err := s.staySvc.Create(c.Request.Context(), staydomain.CreateRequest{
		FamilyGroup:     req.FamilyGroup,
		HostAssignments: req.HostAssignments,
		OwnerUserID:     req.OwnerUserID,
		StartDate:       start,
		EndDate:         end,
		DailyOccupancy:  req.DailyOccupancy,
		Status:          req.Status,
		HasPets:         req.HasPets,
		RateOverride:    req.RateOverride,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondCreated(c, stay)
}

// @Summary      List stays
// @Tags         stays
// @Produce      json
// @Param        family_group  query  string  false  "Family group"
// @Success      200  {object}  DataResponse
// @Router       /v1/stays [get]
func (s *Server) ListStays(c *gin.Context) {
	stays, err := s.staySvc.List(c.Request.Context(), staydomain.ListRequest{
		FamilyGroup: c.Query("family_group"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, stays)
}

// @Summary      Get stay
// @Tags         stays
// @Produce      json
// @Param        id  path  string  true  "Stay ID"
// @Success      200  {object}  DataResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/stays/{id} [get]
func (s *Server) GetStay(c *gin.Context) {
	stay, err := s.staySvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, stay)
}

// @Summary      Replace daily occupancy
// @Description  Replaces the stay's nightly guest counts and re-bills its payment unless billing is locked
// @Tags         stays
// @Accept       json
// @Produce      json
// @Param        id       path  string                  true  "Stay ID"
// @Param        request  body  updateOccupancyRequest  true  "Occupancy"
// @Success      200  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/stays/{id}/occupancy [put]
func (s *Server) UpdateStayOccupancy(c *gin.Context) {
	var req updateOccupancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	stay, err := s.staySvc.UpdateDailyOccupancy(c.Request.Context(), staydomain.UpdateOccupancyRequest{
		StayID: c.Param("id"),
		Days:   req.DailyOccupancy,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, stay)
}
