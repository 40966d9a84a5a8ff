package book

import (
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "Book not found")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "Price must be a positive number")

	// ErrInvalidRating 评分超出范围
	ErrInvalidRating = apperrors.New(apperrors.ErrCodeInvalidParams, "Rating must be between 0 and 5")

	ErrTitleRequired    = apperrors.New(apperrors.ErrCodeInvalidParams, "Title is required")
	ErrAuthorRequired   = apperrors.New(apperrors.ErrCodeInvalidParams, "Author is required")
	ErrCategoryRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "Category is required")

	// ErrOutOfStock 严格库存模式下加入缺货图书
	ErrOutOfStock = apperrors.New(apperrors.ErrCodeOutOfStock, "Out of stock")
)
