package category

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

func TestNormalize(t *testing.T) {
	name, err := Normalize("  Travel ")
	require.NoError(t, err)
	assert.Equal(t, "Travel", name)

	_, err = Normalize("   ")
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestInUse(t *testing.T) {
	err := InUse("Mystery", 2)

	assert.True(t, errors.Is(err, ErrCategoryInUse))
	assert.True(t, apperrors.IsConflict(err))

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, 2, appErr.Details["book_count"])
	assert.Equal(t, "This category contains 2 books. Please reassign or delete the books first.", appErr.Description())
}
