package v1

import (
	"net/http"

	"rezo-backend/internal/delivery/http/middleware"
	"rezo-backend/internal/delivery/http/response"
	"rezo-backend/internal/domain"
	"rezo-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// profilePaths is the collection path each role's profiles are served under.
var profilePaths = map[domain.Role]string{
	domain.RoleStudent:    "/students",
	domain.RoleHighSchool: "/high-schoolers",
	domain.RoleCompany:    "/companies",
	domain.RoleUniversity: "/universities",
}

type ProfileHandler struct {
	authUC    domain.AuthUsecase
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(protected *gin.RouterGroup, authUC domain.AuthUsecase, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{authUC: authUC, profileUC: profileUC}

	protected.GET("/users/:id", handler.GetUser)

	me := protected.Group("/profile")
	{
		me.GET("/me", handler.GetMine)
		me.PUT("/me", handler.UpdateMine)
	}

	for role, path := range profilePaths {
		protected.GET(path+"/:id", handler.GetByRole(role))
		if role.IsOrganization() {
			protected.POST(path, handler.CreateOrganization(role))
		}
	}
}

// GetUser godoc
// @Summary      Get user
// @Description  Get the public view of a user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	user, err := h.authUC.GetPublicUser(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User retrieved", user)
}

// GetMine godoc
// @Summary      Get my profile
// @Description  Get the profile matching the caller's role
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profile/me [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetMine(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}

	profile, err := h.profileUC.GetMyProfile(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// UpdateMine godoc
// @Summary      Update my profile
// @Description  Replace the role-specific fields of the caller's profile. The body shape depends on the role.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        profile  body      object  true  "Role-specific profile fields"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /profile/me [put]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateMine(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}
	role, ok := middleware.CurrentUserRole(c)
	if !ok {
		c.Error(apperror.Unauthorized("User not authenticated"))
		return
	}

	profile, err := domain.NewProfile(role)
	if err != nil {
		c.Error(err)
		return
	}
	if err := c.ShouldBindJSON(profile); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	updated, err := h.profileUC.UpdateMyProfile(c.Request.Context(), userID, profile)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated", updated)
}

// GetByRole godoc
// @Summary      Get profile
// @Description  Get a student, high-schooler, company or university profile by id
// @Tags         profiles
// @Produce      json
// @Param        id   path      int  true  "Profile ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /students/{id} [get]
// @Router       /high-schoolers/{id} [get]
// @Router       /companies/{id} [get]
// @Router       /universities/{id} [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetByRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}

		profile, err := h.profileUC.GetProfile(c.Request.Context(), role, id)
		if err != nil {
			c.Error(err)
			return
		}

		response.Success(c, http.StatusOK, "Profile retrieved", profile)
	}
}

// CreateOrganization godoc
// @Summary      Create organization
// @Description  Create a company or university outside of registration. Without user_id it has no owner
// @Description  and likes on its offers or formations open no conversation. user_id may only name the caller.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        organization  body      object  true  "name, optional user_id and role-specific fields"
// @Success      201           {object}  response.Response
// @Failure      400           {object}  response.Response
// @Failure      403           {object}  response.Response
// @Failure      409           {object}  response.Response
// @Router       /companies [post]
// @Router       /universities [post]
// @Security     BearerAuth
func (h *ProfileHandler) CreateOrganization(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := actorID(c)
		if err != nil {
			c.Error(err)
			return
		}

		profile, err := domain.NewProfile(role)
		if err != nil {
			c.Error(err)
			return
		}
		if err := c.ShouldBindJSON(profile); err != nil {
			c.Error(apperror.BadRequest("Invalid request body"))
			return
		}

		created, err := h.profileUC.CreateOrganization(c.Request.Context(), userID, profile)
		if err != nil {
			c.Error(err)
			return
		}

		response.Success(c, http.StatusCreated, "Organization created", created)
	}
}
