// Package models はTodo APIで扱うデータ構造を定義します。
package models

import (
	"encoding/json"
	"math"
)

// Todo はユーザーが所有するタスクです。
type Todo struct {
	ID        int    `json:"id"`        // 主キー (ストアが採番)
	Task      string `json:"task"`      // 作成時のみ設定
	Completed bool   `json:"completed"` // 更新できる唯一のフィールド
	UserID    int    `json:"userId"`    // 所有者
}

// CreateTodoRequest はPOST /api/todos のボディです。
// taskが文字列以外の場合はJSONデコードの段階で失敗します。
type CreateTodoRequest struct {
	Task string `json:"task" binding:"required"`
}

// UpdateTodoRequest はPUT /api/todos/:id のボディです。
// completed は型を検証せず、CompletedValue で真偽値に変換します。
type UpdateTodoRequest struct {
	Completed any `json:"completed"`
}

// CompletedValue はcompletedを真偽値として評価します。
// 未指定・null・false・0・空文字列は false、それ以外 ("0" や [] や {} を含む) は true です。
func (r UpdateTodoRequest) CompletedValue() bool {
	switch v := r.Completed.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case string:
		return v != ""
	default:
		return true
	}
}

// Claims はアクセストークンから取り出す呼び出し元の情報です。
type Claims struct {
	UserID int `json:"user_id"`
}
