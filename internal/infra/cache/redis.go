package cache

import (
	"context"
	"encoding/json"
	"time"

	radix "github.com/mediocregopher/radix/v3"
)

// パターン削除でまとめて消すときの1回あたりのSCAN件数
const scanCount = 100

// radix で JSON を出し入れするキャッシュ
type RedisCache struct {
	client radix.Client
}

// Redis 接続プールを作る
func NewPool(addr string, size int) (*radix.Pool, error) {
	if size <= 0 {
		size = 10
	}
	return radix.NewPool("tcp", addr, size)
}

func NewRedisCache(client radix.Client) *RedisCache {
	return &RedisCache{client: client}
}

// ない場合は false
func (c *RedisCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	var raw []byte
	mn := radix.MaybeNil{Rcv: &raw}
	if err := c.client.Do(radix.Cmd(&mn, "GET", key)); err != nil {
		return false, err
	}
	if mn.Nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// 壊れた値は消して取り直させる
		_ = c.client.Do(radix.Cmd(nil, "DEL", key))
		return false, nil
	}
	return true, nil
}

// ttl が 0 以下なら期限なし
func (c *RedisCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return c.client.Do(radix.FlatCmd(nil, "SET", key, body))
	}
	return c.client.Do(radix.FlatCmd(nil, "SETEX", key, int64(ttl/time.Second), body))
}

// KEYS は使わず SCAN で探して消す
func (c *RedisCache) DeletePattern(ctx context.Context, pattern string) error {
	s := radix.NewScanner(c.client, radix.ScanOpts{
		Command: "SCAN",
		Pattern: pattern,
		Count:   scanCount,
	})

	var (
		key  string
		keys []string
	)
	for s.Next(&key) {
		keys = append(keys, key)
	}
	if err := s.Close(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Do(radix.Cmd(nil, "DEL", keys...))
}
