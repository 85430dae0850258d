package models

// Tag 标签，tag 字段保存规范化（去空白、小写）后的文本
type Tag struct {
	ID  uint   `gorm:"primarykey" json:"id"`
	Tag string `gorm:"size:100;not null;index" json:"tag"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}

// FileTag 文件与标签的关联
type FileTag struct {
	FileID uint `gorm:"primaryKey;autoIncrement:false" json:"file_id"`
	TagID  uint `gorm:"primaryKey;autoIncrement:false;index" json:"tag_id"`
}

// TableName 指定表名
func (FileTag) TableName() string {
	return "file_tags"
}
