package controller

import (
	"snapquizzer_backend/internal/service"
	"snapquizzer_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProcessController struct {
	extraction *service.ExtractionService
}

func NewProcessController(extraction *service.ExtractionService) *ProcessController {
	return &ProcessController{extraction: extraction}
}

type imageUploadRequest struct {
	ImageData string `json:"image_data" binding:"required"`
}

// ProcessImage godoc
// @Summary Extract questions from one image
// @Description Accepts a base64 image (with or without a data-URL prefix), runs OCR, and returns the detected questions
// @Tags process
// @Accept json
// @Produce json
// @Param request body imageUploadRequest true "Base64 image"
// @Success 200 {object} util.Response{data=service.ExtractionResult}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /process/image [post]
func (c *ProcessController) ProcessImage(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req imageUploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.extraction.ProcessImage(ctx.Request.Context(), claims.UserID, req.ImageData)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

type batchUploadRequest struct {
	Images []string `json:"images" binding:"required,min=1"`
}

// ProcessImages godoc
// @Summary Extract questions from several images
// @Description Processes images sequentially; a failed image is reported in place, and the batch fails only when no image yields a question
// @Tags process
// @Accept json
// @Produce json
// @Param request body batchUploadRequest true "Base64 images"
// @Success 200 {object} util.Response{data=service.BatchResult}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /process/images [post]
func (c *ProcessController) ProcessImages(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req batchUploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.extraction.ProcessBatch(ctx.Request.Context(), claims.UserID, req.Images)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
