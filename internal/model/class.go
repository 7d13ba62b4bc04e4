package model

// swagger:model Class
type Class struct {
	BaseModel
	Name      string `gorm:"size:255;not null" json:"name"`
	Subject   string `gorm:"size:100" json:"subject"`
	TeacherID uint   `gorm:"index;type:bigint unsigned" json:"teacherId"`
	Code      string `gorm:"size:12;uniqueIndex;not null" json:"code"`
}

func (Class) TableName() string {
	return "classes"
}

type ClassMember struct {
	BaseModel
	ClassID uint `gorm:"index:idx_class_user,unique;type:bigint unsigned" json:"classId"`
	UserID  uint `gorm:"index:idx_class_user,unique;type:bigint unsigned" json:"userId"`
}

func (ClassMember) TableName() string {
	return "class_members"
}
