package server

import (
	"blogsphere/internal/middleware"
	"blogsphere/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/users/profile
// @Summary Current user's profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/profile [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.userService.Profile(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateProfile handles PUT /api/users/profile
// @Summary Update the current user's profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{bio=string,profilePicture=string} true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/profile [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var in service.UpdateProfileInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	in.UserID = middleware.UserID(c)

	user, err := s.userService.UpdateProfile(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
