package models

type Course struct {
	BaseModel
	Title          string `gorm:"not null"`
	Subtitle       string `gorm:"not null"`
	Type           string `gorm:"not null"`
	TimeToEndL     string `gorm:"column:timetoendl;not null"` // метка уровня длительности
	Color          string `gorm:"not null"`
	Icon           string
	IconType       string `gorm:"column:icontype"`
	TitleForCourse string `gorm:"not null"`

	// Relations (каскадное удаление вместе с курсом)
	Info     []CourseInfo `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Sections []Section    `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

// CourseInfo - пара заголовок/подзаголовок, описывающая аспект курса
type CourseInfo struct {
	BaseModel
	CourseID string `gorm:"index;not null"`
	Title    string `gorm:"not null"`
	Subtitle string `gorm:"not null"`
}

func (CourseInfo) TableName() string { return "course_info" }

type Section struct {
	BaseModel
	CourseID string `gorm:"index;not null"`
	Name     string `gorm:"not null"`

	Lessons []Lesson `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

func (Section) TableName() string { return "course_sections" }

type Lesson struct {
	BaseModel
	SectionID   string        `gorm:"index;not null"`
	Name        string        `gorm:"not null"`
	Passing     PassingStatus `gorm:"type:varchar(3);default:'no'"`
	Description string        `gorm:"type:text"`
}
