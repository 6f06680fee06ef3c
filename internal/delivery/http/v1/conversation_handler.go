package v1

import (
	"net/http"

	"rezo-backend/internal/delivery/http/response"
	"rezo-backend/internal/domain"
	"rezo-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	convUC domain.ConversationUsecase
}

func NewConversationHandler(protected *gin.RouterGroup, convUC domain.ConversationUsecase) {
	handler := &ConversationHandler{convUC: convUC}

	protected.GET("/users/:id/conversations", handler.ListForUser)
	protected.POST("/conversations", handler.Create)
	protected.GET("/conversations/:id/messages", handler.ListMessages)
	protected.POST("/messages", handler.SendMessage)
}

// ListForUser godoc
// @Summary      List conversations
// @Description  The user's conversations with the other participant and the latest message. Only the user may read it.
// @Tags         conversations
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /users/{id}/conversations [get]
// @Security     BearerAuth
func (h *ConversationHandler) ListForUser(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}
	userID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	details, err := h.convUC.ListForUser(c.Request.Context(), actor, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Conversation list", details)
}

// Create godoc
// @Summary      Start a conversation
// @Description  Opens a direct conversation with another user or returns the existing one.
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CreateConversationInput  true  "Participant"
// @Success      200   {object}  response.Response  "Existing conversation"
// @Success      201   {object}  response.Response  "New conversation"
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /conversations [post]
// @Security     BearerAuth
func (h *ConversationHandler) Create(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req domain.CreateConversationInput
	if err := c.ShouldBindJSON(&req); err != nil || req.ParticipantID <= 0 {
		c.Error(apperror.BadRequest("participant_id is required"))
		return
	}

	conv, created, err := h.convUC.CreateDirect(c.Request.Context(), actor, req.ParticipantID)
	if err != nil {
		c.Error(err)
		return
	}

	if created {
		response.Success(c, http.StatusCreated, "Conversation created", conv)
		return
	}
	response.Success(c, http.StatusOK, "Conversation already exists", conv)
}

// ListMessages godoc
// @Summary      List messages
// @Description  Full history of a conversation, oldest first. Participants only.
// @Tags         conversations
// @Produce      json
// @Param        id   path      int  true  "Conversation ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /conversations/{id}/messages [get]
// @Security     BearerAuth
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}
	convID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	messages, err := h.convUC.ListMessages(c.Request.Context(), actor, convID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Message list", messages)
}

// SendMessage godoc
// @Summary      Send a message
// @Description  Appends a message to a conversation the caller belongs to. sender_id defaults to the caller; timestamp defaults to now.
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Param        message  body      domain.SendMessageInput  true  "Message"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /messages [post]
// @Security     BearerAuth
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req domain.SendMessageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	msg, err := h.convUC.SendMessage(c.Request.Context(), actor, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Message sent", msg)
}
