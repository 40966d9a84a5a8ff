package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/storefront/internal/application/storefront"
	"github.com/xiebiao/storefront/pkg/response"
)

type NoticeHandler struct {
	sf *storefront.Storefront
}

func NewNoticeHandler(sf *storefront.Storefront) *NoticeHandler {
	return &NoticeHandler{sf: sf}
}

type noticeQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Recent 最近的操作通知,最新在前
// @Summary      最近通知
// @Tags         通知
// @Produce      json
// @Param        limit query int false "条数,默认10"
// @Success      200 {object} response.Response{data=response.ListData{list=[]notify.Notice}}
// @Router       /api/v1/notices [get]
func (h *NoticeHandler) Recent(c *gin.Context) {
	var q noticeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
	response.SuccessList(c, h.sf.Notices(q.Limit))
}
