package v1

import (
	"net/http"

	"rezo-backend/internal/delivery/http/response"
	"rezo-backend/internal/domain"
	"rezo-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchUC domain.MatchUsecase
}

func NewMatchHandler(protected *gin.RouterGroup, matchUC domain.MatchUsecase) {
	handler := &MatchHandler{matchUC: matchUC}

	matches := protected.Group("/matches")
	{
		matches.POST("", handler.RecordLike)
		matches.GET("", handler.ListMine)
	}
}

// RecordLike godoc
// @Summary      Like an offer or a formation
// @Description  Records the like and opens (or reuses) the conversation with the target's owner.
// @Description  Exactly one of offer_id and formation_id must be set. user_id is optional and must match the caller.
// @Tags         matches
// @Accept       json
// @Produce      json
// @Param        like  body      domain.RecordLikeInput  true  "Like"
// @Success      201   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /matches [post]
// @Security     BearerAuth
func (h *MatchHandler) RecordLike(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req domain.RecordLikeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	// Security: the acting user always comes from the token
	if req.UserID != nil && *req.UserID != userID {
		c.Error(apperror.Forbidden("You can only like on your own behalf"))
		return
	}

	target, err := domain.NewMatchTarget(req.OfferID, req.FormationID)
	if err != nil {
		c.Error(apperror.Wrap(apperror.BadRequest(err.Error()), err))
		return
	}

	result, err := h.matchUC.RecordLike(c.Request.Context(), userID, target)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Like recorded", result)
}

// ListMine godoc
// @Summary      List my likes
// @Tags         matches
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Router       /matches [get]
// @Security     BearerAuth
func (h *MatchHandler) ListMine(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}
	page, pageSize := paging(c)

	matches, total, err := h.matchUC.ListLikes(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Like list", gin.H{
		"matches":   matches,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
