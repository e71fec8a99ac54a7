package server

import (
	"github.com/gin-gonic/gin"
	receiptdomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/receipt/domain"
	"github.com/shopspring/decimal"
)

type createReceiptRequest struct {
	FamilyGroup string          `json:"family_group"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ReceiptDate string          `json:"receipt_date"`
}

// @Summary      Record expense receipt
// @Description  Records a family group's cabin expense, credited against its latest stay
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        request  body  createReceiptRequest  true  "Receipt"
// @Success      201  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/receipts [post]
func (s *Server) CreateReceipt(c *gin.Context) {
	var req createReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseOptionalDate("receipt_date", req.ReceiptDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	receipt, err := s.receiptSvc.Create(c.Request.Context(), receiptdomain.CreateRequest{
		FamilyGroup: req.FamilyGroup,
		Amount:      req.Amount,
		Description: req.Description,
		ReceiptDate: date,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondCreated(c, receipt)
}

// @Summary      List receipts
// @Tags         receipts
// @Produce      json
// @Param        family_group  query  string  false  "Family group"
// @Success      200  {object}  DataResponse
// @Router       /v1/receipts [get]
func (s *Server) ListReceipts(c *gin.Context) {
	receipts, err := s.receiptSvc.List(c.Request.Context(), receiptdomain.ListRequest{
		FamilyGroup: c.Query("family_group"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, receipts)
}
