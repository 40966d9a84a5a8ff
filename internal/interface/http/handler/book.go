package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/storefront/internal/application/storefront"
	"github.com/xiebiao/storefront/internal/domain/book"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	sf *storefront.Storefront
}

func NewBookHandler(sf *storefront.Storefront) *BookHandler {
	return &BookHandler{sf: sf}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  按关键字(书名/作者/分类,不区分大小写)和分类筛选
// @Tags         图书
// @Produce      json
// @Param        q        query string false "关键字"
// @Param        category query string false "分类,精确匹配;为空时不筛选"
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.BookResponse}}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	books := h.sf.Books(c.Request.Context(), book.Filter{Query: req.Query, Category: req.Category})
	response.SuccessList(c, dto.NewBookList(books))
}

// Featured 首页推荐
// @Summary      推荐图书
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.BookResponse}}
// @Router       /api/v1/books/featured [get]
func (h *BookHandler) Featured(c *gin.Context) {
	response.SuccessList(c, dto.NewBookList(h.sf.Featured(c.Request.Context())))
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      200 {object} response.Response "40402 图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	b, err := h.sf.Book(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookResponse(b))
}

// Related 同分类推荐
// @Summary      相关图书
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.BookResponse}}
// @Router       /api/v1/books/{id}/related [get]
func (h *BookHandler) Related(c *gin.Context) {
	books, err := h.sf.Related(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessList(c, dto.NewBookList(books))
}

// CreateBook 新增图书
// @Summary      新增图书
// @Description  管理员新增图书,分类必须已存在
// @Tags         图书管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 参数绑定
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	// 2. 调用门面(校验失败时门面已发出通知)
	b, err := h.sf.AddBook(c.Request.Context(), req.ToFields())
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 响应
	response.Success(c, dto.NewBookResponse(b))
}

// UpdateBook 编辑图书
// @Summary      编辑图书
// @Tags         图书管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string          true "图书ID"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	b, err := h.sf.UpdateBook(c.Request.Context(), c.Param("id"), req.ToFields())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookResponse(b))
}

// DeleteBook 删除图书(不存在时同样返回成功)
// @Summary      删除图书
// @Tags         图书管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.sf.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
