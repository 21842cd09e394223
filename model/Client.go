package model

import (
	"time"

	"gorm.io/gorm"
)

// Openness 表示客户是否愿意建立联系的三态枚举。
// 存储编码与历史数据保持兼容：0=否 1=是 2=未知。
type Openness int8

const (
	OpennessNo      Openness = 0 // 不愿意
	OpennessYes     Openness = 1 // 愿意
	OpennessUnknown Openness = 2 // 未知
)

// Client 客户（外联网络中的联系人）记录。
// 约束：user_id 为业务主键，唯一索引 uidx_client_user_id；
// id 为内部自增主键，更新/删除接口按 id 操作。
type Client struct {
	Id                 int64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增id" json:"id"`
	UserId             string    `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:uidx_client_user_id;comment:业务主键" json:"userId"`
	Name               string    `gorm:"column:name;type:varchar(128);not null;comment:姓名" json:"name"`
	Nickname           string    `gorm:"column:nickname;type:varchar(128);index;comment:昵称（按昵称创建关系时使用）" json:"nickname"`
	Avatar             string    `gorm:"column:avatar;type:varchar(255);default:default.png;comment:头像文件名" json:"avatar"`
	GroupName          string    `gorm:"column:group_name;type:varchar(64);comment:分组名" json:"groupName"`
	OpenForConnections *Openness `gorm:"column:open_for_connections;comment:是否愿意建联 0.否 1.是 2.未知" json:"openForConnections"`
	IsReached          int8      `gorm:"column:is_reached;not null;default:0;comment:是否已触达 0.否 1.是" json:"isReached"`
	HowHardToReach     int       `gorm:"column:how_hard_to_reach;not null;default:0;comment:触达难度" json:"howHardToReach"`
	Priority           int       `gorm:"column:priority;not null;default:0;comment:优先级" json:"priority"`
	Status             int8      `gorm:"column:status;not null;default:1;comment:状态 1.有效" json:"status"`
	ParameterOne       string    `gorm:"column:parameter_one;type:varchar(255);comment:备用参数一" json:"parameterOne"`
	ParameterTwo       string    `gorm:"column:parameter_two;type:varchar(255);comment:备用参数二" json:"parameterTwo"`
	ParameterThree     string    `gorm:"column:parameter_three;type:varchar(255);comment:备用参数三" json:"parameterThree"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	DeletedAt          gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Client) TableName() string { return "client" }
