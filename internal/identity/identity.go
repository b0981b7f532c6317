// Package identity はリクエストに付与された呼び出し元ユーザーIDを読み書きします。
// 書き込むのは認証ミドルウェアだけで、ハンドラーは一度だけ読み出して
// 以降はサービス層へ引数として渡します。
package identity

import "github.com/gin-gonic/gin"

const userIDKey = "user_id"

// Set は呼び出し元のユーザーIDをコンテキストに設定します。
func Set(c *gin.Context, userID int) {
	c.Set(userIDKey, userID)
}

// UserID は呼び出し元のユーザーIDを返します。未設定または不正な値なら false。
func UserID(c *gin.Context) (int, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := v.(int)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}
