package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"teaching-plan/backend/config"
)

// Client Redis 客户端封装
// 当前用于统计报表缓存；后续可扩展分布式锁等场景
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 统计报表缓存 ──
//
// 批量课时统计是全学期逐日重算，代价高且结果在校历不变时稳定，
// 以学期为单位做短 TTL 缓存；校历或课表变更时按学期整体失效。

const reportPrefix = "report:"

// reportKey 统计缓存键："report:{kind}:{semesterID}:{签名}"
func reportKey(kind string, semesterID int, signature string) string {
	return fmt.Sprintf("%s%s:%d:%s", reportPrefix, kind, semesterID, signature)
}

// GetReport 读取缓存的报表 JSON；未命中返回 (nil, false, nil)
func (c *Client) GetReport(ctx context.Context, kind string, semesterID int, signature string) ([]byte, bool, error) {
	payload, err := c.rdb.Get(ctx, reportKey(kind, semesterID, signature)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// SetReport 写入报表 JSON 缓存
func (c *Client) SetReport(ctx context.Context, kind string, semesterID int, signature string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, reportKey(kind, semesterID, signature), payload, ttl).Err()
}

// InvalidateSemester 删除某学期的全部报表缓存
func (c *Client) InvalidateSemester(ctx context.Context, semesterID int) error {
	pattern := fmt.Sprintf("%s*:%d:*", reportPrefix, semesterID)
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
