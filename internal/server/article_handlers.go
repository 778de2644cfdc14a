package server

import (
	"blogsphere/internal/middleware"
	"blogsphere/internal/models"
	"blogsphere/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LikeResponse is the body returned by the article like toggle.
type LikeResponse struct {
	Liked bool `json:"liked"`
}

// ListArticles handles GET /api/articles
// @Summary List articles
// @Description All articles, newest first, with author and like-set
// @Tags articles
// @Produce json
// @Success 200 {array} models.Article
// @Failure 503 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /articles [get]
func (s *Server) ListArticles(c *fiber.Ctx) error {
	articles, err := s.articleService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if articles == nil {
		articles = []*models.Article{}
	}
	return c.JSON(articles)
}

// GetArticle handles GET /api/articles/:id
// @Summary Get an article
// @Description isLiked reflects the caller when a valid bearer token is sent
// @Tags articles
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} models.Article
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /articles/{id} [get]
func (s *Server) GetArticle(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	article, err := s.articleService.Get(c.UserContext(), id, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(article)
}

// CreateArticle handles POST /api/articles
// @Summary Create an article
// @Tags articles
// @Accept json
// @Produce json
// @Param request body object{title=string,content=string} true "Article"
// @Success 201 {object} models.Article
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /articles [post]
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	var in service.CreateArticleInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	in.AuthorID = middleware.UserID(c)

	article, err := s.articleService.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(article)
}

// UpdateArticle handles PUT /api/articles/:id
// @Summary Update an article
// @Description Only the author may edit; omitted fields are left unchanged
// @Tags articles
// @Accept json
// @Produce json
// @Param id path int true "Article ID"
// @Param request body models.ArticleUpdate true "Fields to change"
// @Success 200 {object} models.Article
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /articles/{id} [put]
func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var fields models.ArticleUpdate
	if err := parseBody(c, &fields); err != nil {
		return respondError(c, err)
	}

	article, err := s.articleService.Update(c.UserContext(), service.UpdateArticleInput{
		ArticleID:   id,
		RequesterID: middleware.UserID(c),
		Fields:      fields,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(article)
}

// DeleteArticle handles DELETE /api/articles/:id
// @Summary Delete an article
// @Tags articles
// @Param id path int true "Article ID"
// @Success 200
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /articles/{id} [delete]
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := s.articleService.Delete(c.UserContext(), id, middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// ToggleArticleLike handles POST /api/articles/:id/like
// @Summary Like or unlike an article
// @Tags articles
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} LikeResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /articles/{id}/like [post]
func (s *Server) ToggleArticleLike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	liked, err := s.articleService.ToggleLike(c.UserContext(), id, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(LikeResponse{Liked: liked})
}
