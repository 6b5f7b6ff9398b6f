package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stackit/interaction/internal/adapters/http/dto"
	"github.com/stackit/interaction/internal/adapters/http/middleware"
	"github.com/stackit/interaction/internal/app"
	"github.com/stackit/interaction/internal/app/state"
	"github.com/stackit/interaction/internal/domain"
)

// ForumHandler exposes the question feed, the vote and acceptance
// intents, and the session's view state.
type ForumHandler struct {
	feed       *app.FeedService
	votes      *app.VoteService
	acceptance *app.AcceptanceService
}

// NewForumHandler creates a forum handler.
func NewForumHandler(feed *app.FeedService, votes *app.VoteService, acceptance *app.AcceptanceService) *ForumHandler {
	return &ForumHandler{feed: feed, votes: votes, acceptance: acceptance}
}

// ListQuestions handles GET /api/v1/questions.
// Supports ?search=, repeated ?tags=, and cursor pagination via
// ?cursor= and ?limit=; filters narrow the feed without touching the
// underlying collection.
func (h *ForumHandler) ListQuestions(c *gin.Context) {
	var query dto.QuestionListQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.HandleValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	session := middleware.GetSession(c)
	visible := h.feed.Visible(session, query.Search, query.Tags)

	page, err := dto.NewQuestionListPage(visible, session, &query.PaginationRequest)
	if err != nil {
		dto.HandleValidationErrors(c, map[string]string{"cursor": "invalid cursor"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetQuestion handles GET /api/v1/questions/:id.
// Navigates the session to the detail view and bumps the view counter.
func (h *ForumHandler) GetQuestion(c *gin.Context) {
	session := middleware.GetSession(c)

	question, err := h.feed.Open(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuestionResponse(question, session))
}

// CreateQuestion handles POST /api/v1/questions.
func (h *ForumHandler) CreateQuestion(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	session := middleware.GetSession(c)

	created, err := h.feed.Ask(c.Request.Context(), session, req.Draft())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuestionResponse(created, session))
}

// CreateAnswer handles POST /api/v1/questions/:id/answers.
func (h *ForumHandler) CreateAnswer(c *gin.Context) {
	var req dto.CreateAnswerRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	session := middleware.GetSession(c)

	created, err := h.feed.Answer(c.Request.Context(), session, c.Param("id"), req.Content)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAnswerResponse(created, session))
}

// VoteQuestion handles POST /api/v1/questions/:id/vote.
func (h *ForumHandler) VoteQuestion(c *gin.Context) {
	h.castVote(c, state.QuestionTarget(c.Param("id")))
}

// VoteAnswer handles POST /api/v1/answers/:id/vote.
func (h *ForumHandler) VoteAnswer(c *gin.Context) {
	h.castVote(c, state.AnswerTarget(c.Param("id")))
}

func (h *ForumHandler) castVote(c *gin.Context, target state.VoteTarget) {
	var req dto.VoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	session := middleware.GetSession(c)

	result, err := h.votes.Cast(c.Request.Context(), session, target, domain.VoteDirection(req.Direction))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.VoteResponse{
		Applied:    result.Applied,
		ViewerVote: result.State.String(),
		Votes:      result.Score,
	})
}

// AcceptAnswer handles POST /api/v1/questions/:id/answers/:answerId/accept.
func (h *ForumHandler) AcceptAnswer(c *gin.Context) {
	session := middleware.GetSession(c)
	questionID := c.Param("id")
	answerID := c.Param("answerId")

	err := h.acceptance.Accept(c.Request.Context(), session, questionID, answerID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	question := session.Question(questionID)

	c.JSON(http.StatusOK, dto.NewQuestionResponse(question, session))
}

// ListTags handles GET /api/v1/tags.
func (h *ForumHandler) ListTags(c *gin.Context) {
	c.JSON(http.StatusOK, dto.TagListResponse{
		Tags: h.feed.Tags(c.Request.Context()),
	})
}

// GetView handles GET /api/v1/view.
func (h *ForumHandler) GetView(c *gin.Context) {
	session := middleware.GetSession(c)

	c.JSON(http.StatusOK, dto.NewViewResponse(session.View()))
}

// SetView handles PUT /api/v1/view.
// Navigating away from a question back home or to the ask form only
// touches the session's view state.
func (h *ForumHandler) SetView(c *gin.Context) {
	var req dto.SetViewRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	view, err := domain.ParseView(req.Kind, req.QuestionID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	session := middleware.GetSession(c)

	if view.Kind == domain.ViewQuestionDetail && session.Question(view.QuestionID) == nil {
		dto.HandleError(c, domain.NewNotFoundError("question", view.QuestionID))
		return
	}

	session.SetView(view)

	c.JSON(http.StatusOK, dto.NewViewResponse(view))
}

// RegisterRoutes wires the forum endpoints. Reads serve anonymously;
// write intents go through the services, which gate on authentication
// themselves (votes degrade to a no-op, creation and acceptance return
// 401).
func (h *ForumHandler) RegisterRoutes(rg *gin.RouterGroup) {
	questions := rg.Group("/questions")
	questions.GET("", h.ListQuestions)
	questions.POST("", h.CreateQuestion)
	questions.GET("/:id", h.GetQuestion)
	questions.POST("/:id/vote", h.VoteQuestion)
	questions.POST("/:id/answers", h.CreateAnswer)
	questions.POST("/:id/answers/:answerId/accept", h.AcceptAnswer)

	rg.POST("/answers/:id/vote", h.VoteAnswer)
	rg.GET("/tags", h.ListTags)

	rg.GET("/view", h.GetView)
	rg.PUT("/view", h.SetView)
}
