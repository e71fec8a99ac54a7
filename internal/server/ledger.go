package server

import (
	"github.com/gin-gonic/gin"
)

// @Summary      Organization ledger
// @Description  Computes every host's stay entries with carried credit, balances and summaries
// @Tags         ledger
// @Produce      json
// @Success      200  {object}  DataResponse
// @Router       /v1/ledger [get]
func (s *Server) GetOrgLedger(c *gin.Context) {
	result, err := s.ledgerSvc.ComputeOrgLedger(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, result)
}

// @Summary      Host ledger
// @Tags         ledger
// @Produce      json
// @Param        host_key  path  string  true  "Host key"
// @Success      200  {object}  DataResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/ledger/hosts/{host_key} [get]
func (s *Server) GetHostLedger(c *gin.Context) {
	ledger, err := s.ledgerSvc.ComputeHostLedger(c.Request.Context(), c.Param("host_key"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, ledger)
}

// @Summary      Stay financials
// @Description  Returns one stay's computed view. Accepts a stay id or a split:<id> reference.
// @Tags         ledger
// @Produce      json
// @Param        id  path  string  true  "Stay reference"
// @Success      200  {object}  DataResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/stays/{id}/financials [get]
func (s *Server) GetStayFinancials(c *gin.Context) {
	view, err := s.ledgerSvc.GetStayFinancials(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, view)
}
