package dto

import (
	"bytes"
	"encoding/json"
)

// NullableInt 区分"未提供"、"显式null"和"有值"三种情况
// 用于部分更新：{"year": null}表示清空年份，不带year字段表示不修改
type NullableInt struct {
	Set   bool
	Value *int
}

// UnmarshalJSON 字段出现在请求体中才会被调用
func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// MarshalJSON 未设置或null都输出null
func (n NullableInt) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}
