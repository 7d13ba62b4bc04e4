package controller

import (
	"snapquizzer_backend/internal/service"
	"snapquizzer_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ClassController struct {
	classService *service.ClassService
}

func NewClassController(classService *service.ClassService) *ClassController {
	return &ClassController{classService: classService}
}

// Create godoc
// @Summary Create a class
// @Description Teacher-only; returns the class with its shareable join code
// @Tags class
// @Accept json
// @Produce json
// @Param request body service.ClassCreateRequest true "Class payload"
// @Success 201 {object} util.Response{data=model.Class}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Security BearerAuth
// @Router /classes [post]
func (c *ClassController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.ClassCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	class, err := c.classService.CreateClass(claims.UserID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, class)
}

// Join godoc
// @Summary Join a class by code
// @Tags class
// @Produce json
// @Param code path string true "Join code"
// @Success 200 {object} util.Response{data=model.Class}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Security BearerAuth
// @Router /classes/{code}/join [post]
func (c *ClassController) Join(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	class, err := c.classService.JoinByCode(claims.UserID, ctx.Param("code"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, class)
}

// List godoc
// @Summary List the caller's classes
// @Description Classes the caller teaches plus classes they joined
// @Tags class
// @Produce json
// @Success 200 {object} util.Response
// @Security BearerAuth
// @Router /classes [get]
func (c *ClassController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	classes, err := c.classService.ListClasses(claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, classes)
}
