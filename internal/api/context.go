package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studentfolio/internal/api/middleware"
)

func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// paramID 解析路径中的 :id，失败时已写出 400。
func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
