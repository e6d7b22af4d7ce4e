package handler

import (
	"context"
	"net/http"
	"strconv"

	invoicingapp "github.com/einvoice/backend/internal/application/invoicing"
	"github.com/einvoice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// InvoiceService is the lifecycle engine as seen by the HTTP layer
type InvoiceService interface {
	Create(ctx context.Context, req invoicingapp.CreateInvoiceRequest) (*invoicingapp.InvoiceDetailResponse, error)
	Update(ctx context.Context, id string, req invoicingapp.UpdateInvoiceRequest) (*invoicingapp.InvoiceDetailResponse, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*invoicingapp.InvoiceDetailResponse, error)
	List(ctx context.Context, filter invoicingapp.ListInvoicesFilter) (*invoicingapp.InvoiceListResult, error)
	ChangeStatus(ctx context.Context, id string, req invoicingapp.ChangeStatusRequest) (*invoicingapp.InvoiceResponse, error)
}

// ArchiveLinker resolves an archived authority response to a download URL
type ArchiveLinker interface {
	Link(ctx context.Context, key string) (string, error)
}

// InvoiceHandler handles invoice lifecycle endpoints
type InvoiceHandler struct {
	BaseHandler
	invoices InvoiceService
	archive  ArchiveLinker
}

// NewInvoiceHandler creates a new InvoiceHandler. archive may be nil when
// object storage is disabled.
func NewInvoiceHandler(invoices InvoiceService, archive ArchiveLinker) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, archive: archive}
}

// Create godoc
//
//	@Summary	Create an invoice and report it to the authority
//	@Tags		invoices
//	@Accept		json
//	@Produce	json
//	@Param		Idempotency-Key	header		string								false	"Replay guard"
//	@Param		request			body		invoicing.CreateInvoiceRequest		true	"Invoice"
//	@Success	201				{object}	dto.Response
//	@Failure	400				{object}	dto.Response
//	@Failure	404				{object}	dto.Response
//	@Failure	409				{object}	dto.Response
//	@Failure	500				{object}	dto.Response
//	@Router		/invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req invoicingapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if req.UserID == nil {
		req.UserID = actingUserID(c)
	}

	invoice, err := h.invoices.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Invoice created successfully", invoice)
}

// List godoc
//
//	@Summary	List invoices
//	@Tags		invoices
//	@Produce	json
//	@Param		status		query		string	false	"Status filter"
//	@Param		client_id	query		string	false	"Client filter"
//	@Param		page		query		int		false	"Page number"
//	@Param		page_size	query		int		false	"Page size"
//	@Success	200			{object}	dto.Response
//	@Router		/invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter invoicingapp.ListInvoicesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.invoices.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header(middleware.TotalCountHeader, strconv.FormatInt(result.Total, 10))
	h.SuccessWithMeta(c, result.Invoices, result.Total, result.Page, result.PageSize)
}

// Get godoc
//
//	@Summary	Get an invoice with its lines and parties
//	@Tags		invoices
//	@Produce	json
//	@Param		id	path		string	true	"Invoice id"
//	@Success	200	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Router		/invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.invoices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Update godoc
//
//	@Summary	Update a draft invoice and resubmit it
//	@Tags		invoices
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Invoice id"
//	@Param		request	body		invoicing.UpdateInvoiceRequest	true	"Changed fields"
//	@Success	200		{object}	dto.Response
//	@Failure	403		{object}	dto.Response
//	@Failure	404		{object}	dto.Response
//	@Failure	500		{object}	dto.Response
//	@Router		/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	var req invoicingapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if req.UserID == nil {
		req.UserID = actingUserID(c)
	}

	invoice, err := h.invoices.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Invoice updated successfully", invoice)
}

// ChangeStatus godoc
//
//	@Summary	Record a status reported by the authority flow
//	@Tags		invoices
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Invoice id"
//	@Param		request	body		invoicing.ChangeStatusRequest	true	"Target status"
//	@Success	200		{object}	dto.Response
//	@Failure	403		{object}	dto.Response
//	@Router		/invoices/{id}/status [patch]
func (h *InvoiceHandler) ChangeStatus(c *gin.Context) {
	var req invoicingapp.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoices.ChangeStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Invoice status updated", invoice)
}

// Delete godoc
//
//	@Summary	Delete a draft invoice locally and at the authority
//	@Tags		invoices
//	@Produce	json
//	@Param		id	path		string	true	"Invoice id"
//	@Success	200	{object}	dto.Response
//	@Failure	403	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Failure	500	{object}	dto.Response
//	@Router		/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.invoices.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Invoice deleted successfully", nil)
}

// Archive redirects to the archived authority response of an invoice
func (h *InvoiceHandler) Archive(c *gin.Context) {
	invoice, err := h.invoices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if h.archive == nil || invoice.XMLLink == "" {
		h.NotFound(c, "No archived response for this invoice")
		return
	}

	url, err := h.archive.Link(c.Request.Context(), invoice.XMLLink)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}
