package identity

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		_, ok := UserID(c)
		assert.False(t, ok)
	})

	t.Run("set", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		Set(c, 12)
		id, ok := UserID(c)
		assert.True(t, ok)
		assert.Equal(t, 12, id)
	})

	t.Run("wrong type", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(userIDKey, "12")
		_, ok := UserID(c)
		assert.False(t, ok)
	})

	t.Run("zero is not an identity", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		Set(c, 0)
		_, ok := UserID(c)
		assert.False(t, ok)
	})
}
