package v1

import (
	"net/http"

	"rezo-backend/internal/delivery/http/response"
	"rezo-backend/internal/domain"
	"rezo-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogUC domain.CatalogUsecase
}

func NewCatalogHandler(public, protected *gin.RouterGroup, catalogUC domain.CatalogUsecase) {
	handler := &CatalogHandler{catalogUC: catalogUC}

	// PUBLIC routes - browsing the catalog needs no account
	public.GET("/offers", handler.ListOffers)
	public.GET("/offers/:id", handler.GetOffer)
	public.GET("/formations", handler.ListFormations)
	public.GET("/formations/:id", handler.GetFormation)

	// PROTECTED routes - publishing is limited to the organization owner
	protected.POST("/companies/:id/offers", handler.CreateOffer)
	protected.GET("/companies/:id/offers", handler.ListCompanyOffers)
	protected.POST("/universities/:id/formations", handler.CreateFormation)
	protected.GET("/universities/:id/formations", handler.ListUniversityFormations)
}

type CatalogItemRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
}

// ListOffers godoc
// @Summary      List offers
// @Description  Paginated offers with their company, newest first
// @Tags         offers
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  response.Response
// @Router       /offers [get]
func (h *CatalogHandler) ListOffers(c *gin.Context) {
	page, pageSize := paging(c)

	offers, total, err := h.catalogUC.ListOffers(c.Request.Context(), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Offer list", gin.H{
		"offers":    offers,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetOffer godoc
// @Summary      Get offer
// @Description  Offer details with its company
// @Tags         offers
// @Produce      json
// @Param        id   path      int  true  "Offer ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /offers/{id} [get]
func (h *CatalogHandler) GetOffer(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	offer, err := h.catalogUC.GetOffer(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Offer details", offer)
}

// CreateOffer godoc
// @Summary      Create offer
// @Description  Publish an offer for a company the caller owns
// @Tags         offers
// @Accept       json
// @Produce      json
// @Param        id     path      int                 true  "Company ID"
// @Param        offer  body      CatalogItemRequest  true  "Offer"
// @Success      201    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /companies/{id}/offers [post]
// @Security     BearerAuth
func (h *CatalogHandler) CreateOffer(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}
	companyID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var req CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Title is required"))
		return
	}

	offer := &domain.Offer{Title: req.Title, Description: req.Description}
	if err := h.catalogUC.CreateOffer(c.Request.Context(), userID, companyID, offer); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Offer created", offer)
}

// ListCompanyOffers godoc
// @Summary      List company offers
// @Tags         offers
// @Produce      json
// @Param        id         path      int  true   "Company ID"
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /companies/{id}/offers [get]
// @Security     BearerAuth
func (h *CatalogHandler) ListCompanyOffers(c *gin.Context) {
	companyID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	page, pageSize := paging(c)

	offers, total, err := h.catalogUC.ListOffersByCompany(c.Request.Context(), companyID, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Company offers", gin.H{
		"offers":    offers,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// ListFormations godoc
// @Summary      List formations
// @Description  Paginated formations with their university, newest first
// @Tags         formations
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  response.Response
// @Router       /formations [get]
func (h *CatalogHandler) ListFormations(c *gin.Context) {
	page, pageSize := paging(c)

	formations, total, err := h.catalogUC.ListFormations(c.Request.Context(), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Formation list", gin.H{
		"formations": formations,
		"total":      total,
		"page":       page,
		"page_size":  pageSize,
	})
}

// GetFormation godoc
// @Summary      Get formation
// @Tags         formations
// @Produce      json
// @Param        id   path      int  true  "Formation ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /formations/{id} [get]
func (h *CatalogHandler) GetFormation(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	formation, err := h.catalogUC.GetFormation(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Formation details", formation)
}

// CreateFormation godoc
// @Summary      Create formation
// @Description  Publish a formation for a university the caller owns
// @Tags         formations
// @Accept       json
// @Produce      json
// @Param        id         path      int                 true  "University ID"
// @Param        formation  body      CatalogItemRequest  true  "Formation"
// @Success      201        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /universities/{id}/formations [post]
// @Security     BearerAuth
func (h *CatalogHandler) CreateFormation(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}
	universityID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var req CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Title is required"))
		return
	}

	formation := &domain.Formation{Title: req.Title, Description: req.Description}
	if err := h.catalogUC.CreateFormation(c.Request.Context(), userID, universityID, formation); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Formation created", formation)
}

// ListUniversityFormations godoc
// @Summary      List university formations
// @Tags         formations
// @Produce      json
// @Param        id         path      int  true   "University ID"
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /universities/{id}/formations [get]
// @Security     BearerAuth
func (h *CatalogHandler) ListUniversityFormations(c *gin.Context) {
	universityID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	page, pageSize := paging(c)

	formations, total, err := h.catalogUC.ListFormationsByUniversity(c.Request.Context(), universityID, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "University formations", gin.H{
		"formations": formations,
		"total":      total,
		"page":       page,
		"page_size":  pageSize,
	})
}
