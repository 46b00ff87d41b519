package handler

import (
	"net/http"

	"accessibilityhire/internal/model"
	"accessibilityhire/internal/service"

	"github.com/gin-gonic/gin"
)

// OrgHandler handles organization routes
type OrgHandler struct {
	orgs *service.OrgService
}

func NewOrgHandler(orgs *service.OrgService) *OrgHandler {
	return &OrgHandler{orgs: orgs}
}

// List handles GET /organizations
func (h *OrgHandler) List(c *gin.Context) {
	orgs, err := h.orgs.GetAllOrganizations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", orgs))
}

// Create handles POST /organizations
func (h *OrgHandler) Create(c *gin.Context) {
	var req model.CreateOrganizationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid organization", err.Error())
		return
	}
	org, err := h.orgs.CreateOrganization(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Organization created", org))
}

// GetMine handles GET /organizations/me; data is null when the caller has none.
func (h *OrgHandler) GetMine(c *gin.Context) {
	org, err := h.orgs.GetUserOrganization(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", org))
}

// Update handles PATCH /organizations/:id
func (h *OrgHandler) Update(c *gin.Context) {
	var req model.UpdateOrganizationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid organization", err.Error())
		return
	}
	org, err := h.orgs.UpdateOrganization(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Organization updated", org))
}
