package server

import (
	"blogsphere/internal/middleware"
	"blogsphere/internal/models"
	"blogsphere/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListComments handles GET /api/comments/article/:id
// @Summary List an article's comments
// @Tags comments
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/article/{id} [get]
func (s *Server) ListComments(c *fiber.Ctx) error {
	articleID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	comments, err := s.commentService.ListByArticle(c.UserContext(), articleID)
	if err != nil {
		return respondError(c, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/comments
// @Summary Comment on an article
// @Tags comments
// @Accept json
// @Produce json
// @Param request body object{content=string,article=int} true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var in service.CreateCommentInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	in.AuthorID = middleware.UserID(c)

	comment, err := s.commentService.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /api/comments/:id
// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Comment ID"
// @Param request body object{content=string} true "New content"
// @Success 200 {object} models.Comment
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{id} [put]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in service.UpdateCommentInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	in.CommentID = id
	in.RequesterID = middleware.UserID(c)

	comment, err := s.commentService.Update(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
// @Summary Delete a comment
// @Tags comments
// @Param id path int true "Comment ID"
// @Success 200
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := s.commentService.Delete(c.UserContext(), id, middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// ToggleCommentLike handles POST /api/comments/:id/like
// @Summary Like or unlike a comment
// @Tags comments
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{id}/like [post]
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	comment, err := s.commentService.ToggleLike(c.UserContext(), id, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}
