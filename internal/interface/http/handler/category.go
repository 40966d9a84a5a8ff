package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/storefront/internal/application/storefront"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/pkg/response"
)

type CategoryHandler struct {
	sf *storefront.Storefront
}

func NewCategoryHandler(sf *storefront.Storefront) *CategoryHandler {
	return &CategoryHandler{sf: sf}
}

// List 分类列表
// @Summary      分类列表
// @Tags         分类
// @Produce      json
// @Success      200 {object} response.Response{data=response.ListData{list=[]string}}
// @Router       /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	response.SuccessList(c, h.sf.Categories(c.Request.Context()))
}

// Create 新增分类
// @Summary      新增分类
// @Tags         分类管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CategoryRequest true "分类名"
// @Success      200 {object} response.Response
// @Failure      200 {object} response.Response "40004 分类已存在"
// @Router       /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.sf.AddCategory(c.Request.Context(), req.Name); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.CategoryRequest{Name: req.Name})
}

// Rename 重命名分类,同时改写引用该分类的图书
// @Summary      重命名分类
// @Tags         分类管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        name    path string              true "原分类名"
// @Param        request body dto.CategoryRequest true "新分类名"
// @Success      200 {object} response.Response{data=dto.RenameCategoryResponse}
// @Router       /api/v1/categories/{name} [put]
func (h *CategoryHandler) Rename(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	n, err := h.sf.RenameCategory(c.Request.Context(), c.Param("name"), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.RenameCategoryResponse{Name: req.Name, Rewritten: n})
}

// Delete 删除分类
// @Summary      删除分类
// @Description  仍有图书引用时返回40011,details.book_count为引用数量
// @Tags         分类管理
// @Produce      json
// @Security     BearerAuth
// @Param        name path string true "分类名"
// @Success      200 {object} response.Response
// @Router       /api/v1/categories/{name} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.sf.DeleteCategory(c.Request.Context(), c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
