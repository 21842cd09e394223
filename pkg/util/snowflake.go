package util

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

// InitSnowflake 初始化雪花算法节点（进程启动时调用一次）。
// nodeId 取值 0-1023，多实例部署时需要保证不重复。
func InitSnowflake(nodeId int64) error {
	var err error
	snowflakeOnce.Do(func() {
		snowflakeNode, err = snowflake.NewNode(nodeId)
	})
	return err
}

// NextId 生成下一个雪花 ID（用于导入批次号等需要全局唯一的场景）。
// 未初始化时返回 0，调用方需保证先 InitSnowflake。
func NextId() int64 {
	if snowflakeNode == nil {
		return 0
	}
	return snowflakeNode.Generate().Int64()
}
