package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSuccessList_EmptyIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	SuccessList[string](c, nil)

	assert.JSONEq(t, `{"code":0,"message":"success","data":{"list":[],"total":0}}`, rec.Body.String())
}

func TestError(t *testing.T) {
	t.Run("业务错误带details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)

		Error(c, apperrors.New(apperrors.ErrCodeCategoryInUse, "Cannot delete category").WithDetail("book_count", 2))

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decode(t, rec)
		assert.Equal(t, apperrors.ErrCodeCategoryInUse, resp.Code)
		assert.Equal(t, "conflict", resp.Kind)
		assert.EqualValues(t, 2, resp.Details["book_count"])
	})

	t.Run("内部错误不泄露细节", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)

		Error(c, errors.New("dial tcp 10.0.0.1:6379: refused"))

		resp := decode(t, rec)
		assert.Equal(t, apperrors.ErrCodeInternal, resp.Code)
		assert.NotContains(t, rec.Body.String(), "10.0.0.1")
	})
}
